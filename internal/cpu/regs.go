package cpu

// reg8/setReg8 resolve the SM83's 3-bit register field: 0=B, 1=C, 2=D,
// 3=E, 4=H, 5=L, 6=(HL) (a bus round trip, not a register), 7=A. Every
// opcode group that operates "on any of the eight register slots" — LD
// r,r', the ALU group, and all four CB-prefixed groups — is built around
// this one pair instead of each repeating its own register switch.
func (c *CPU) reg8(idx byte) byte {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.getHL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(idx byte, v byte) {
	switch idx & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.getHL(), v)
	default:
		c.A = v
	}
}

// isMemSlot reports whether a register-field value of 6 (the "(HL)"
// slot) is in play, which every variable-length-cycle opcode needs to
// add the memory round trip's extra cycles.
func isMemSlot(idx byte) bool { return idx&7 == 6 }

// aluWriteBack records which of the eight ALU group operations (selected
// by an opcode's "aaa" field, shared by 0x80-0xBF and 0xC6-0xFE) write
// their result back into A. Only CP (index 7) does not.
var aluWriteBack = [8]bool{true, true, true, true, true, true, true, false}

// aluApply runs ALU group operation aluIdx against c.A and src, writing
// the result back into A unless the operation is CP. ADC/SBC read the
// carry flag live since their behavior depends on CPU state at call time.
func (c *CPU) aluApply(aluIdx byte, src byte) {
	var res byte
	var z, n, h, cy bool
	switch aluIdx & 7 {
	case 0:
		res, z, n, h, cy = add8(c.A, src)
	case 1:
		res, z, n, h, cy = adc8(c.A, src, c.F&flagC != 0)
	case 2:
		res, z, n, h, cy = sub8(c.A, src)
	case 3:
		res, z, n, h, cy = sbc8(c.A, src, c.F&flagC != 0)
	case 4:
		res, z, n, h, cy = and8(c.A, src)
	case 5:
		res, z, n, h, cy = xor8(c.A, src)
	case 6:
		res, z, n, h, cy = or8(c.A, src)
	default:
		res, z, n, h, cy = cp8(c.A, src)
	}
	if aluWriteBack[aluIdx&7] {
		c.A = res
	}
	c.setZNHC(z, n, h, cy)
}

// cbRotate describes one of the eight CB group-0 rotate/shift/swap
// operations selected by the opcode's "yyy" field.
type cbRotate func(c *CPU, v byte) (res byte, carryOut bool)

var cbRotateOps = [8]cbRotate{
	rotRLC, rotRRC, rotRL, rotRR, rotSLA, rotSRA, rotSWAP, rotSRL,
}

func rotRLC(c *CPU, v byte) (byte, bool) {
	cf := (v >> 7) & 1
	return (v << 1) | cf, cf == 1
}

func rotRRC(c *CPU, v byte) (byte, bool) {
	cf := v & 1
	return (v >> 1) | (cf << 7), cf == 1
}

func rotRL(c *CPU, v byte) (byte, bool) {
	cf := (v >> 7) & 1
	cin := byte(0)
	if c.F&flagC != 0 {
		cin = 1
	}
	return (v << 1) | cin, cf == 1
}

func rotRR(c *CPU, v byte) (byte, bool) {
	cf := v & 1
	cin := byte(0)
	if c.F&flagC != 0 {
		cin = 1
	}
	return (v >> 1) | (cin << 7), cf == 1
}

func rotSLA(c *CPU, v byte) (byte, bool) {
	cf := (v >> 7) & 1
	return v << 1, cf == 1
}

func rotSRA(c *CPU, v byte) (byte, bool) {
	cf := v & 1
	return (v >> 1) | (v & 0x80), cf == 1
}

func rotSWAP(c *CPU, v byte) (byte, bool) {
	return (v << 4) | (v >> 4), false
}

func rotSRL(c *CPU, v byte) (byte, bool) {
	cf := v & 1
	return v >> 1, cf == 1
}

// condFn evaluates one of the four branch conditions (NZ, Z, NC, C)
// shared by JR cc, JP cc, CALL cc, and RET cc.
type condFn func(c *CPU) bool

var branchConds = [4]condFn{
	func(c *CPU) bool { return c.F&flagZ == 0 },
	func(c *CPU) bool { return c.F&flagZ != 0 },
	func(c *CPU) bool { return c.F&flagC == 0 },
	func(c *CPU) bool { return c.F&flagC != 0 },
}
