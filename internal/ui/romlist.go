package ui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// findROMs returns a sorted, de-duplicated list of .gb/.gbc files found in
// the configured ROMs directory, resolved relative to both the executable's
// directory and the current working directory when it isn't absolute.
func (a *App) findROMs() []string {
	var files []string
	addFrom := func(dir string) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ln := strings.ToLower(e.Name())
			if strings.HasSuffix(ln, ".gb") || strings.HasSuffix(ln, ".gbc") {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
	}

	roms := a.cfg.ROMsDir
	if filepath.IsAbs(roms) {
		addFrom(roms)
	} else {
		exe, _ := os.Executable()
		addFrom(filepath.Join(filepath.Dir(exe), roms))
		addFrom(roms) // relative to the current working directory
	}

	sort.Strings(files)
	uniq := files[:0]
	seen := map[string]bool{}
	for _, p := range files {
		if seen[p] {
			continue
		}
		seen[p] = true
		uniq = append(uniq, p)
	}
	return uniq
}
