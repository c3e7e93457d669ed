package cpu

// opFunc is one entry of the unprefixed or CB-prefixed dispatch table: it
// executes the instruction already matched by its opcode byte and
// returns the T-cycles consumed.
type opFunc func(c *CPU) int

// opcodeTable is indexed directly by the fetched opcode byte. Entries
// that share an encoding pattern (register-to-register loads, the ALU
// group, 16-bit pair ops, conditional branches, RST, PUSH/POP) are
// generated by loops over the relevant bitfield instead of being listed
// out one at a time; everything else is assigned its own named handler.
var opcodeTable [256]opFunc

func init() {
	opcodeTable[0x00] = opNOP
	opcodeTable[0x76] = opHALT
	opcodeTable[0xCB] = opCBPrefix

	opcodeTable[0x07] = opRLCA
	opcodeTable[0x0F] = opRRCA
	opcodeTable[0x17] = opRLA
	opcodeTable[0x1F] = opRRA
	opcodeTable[0x27] = opDAA
	opcodeTable[0x2F] = opCPL
	opcodeTable[0x37] = opSCF
	opcodeTable[0x3F] = opCCF

	opcodeTable[0x22] = opLDHLIncA
	opcodeTable[0x2A] = opLDAHLInc
	opcodeTable[0x32] = opLDHLDecA
	opcodeTable[0x3A] = opLDAHLDec

	opcodeTable[0x08] = opLDa16SP
	opcodeTable[0xE0] = opLDHnA
	opcodeTable[0xF0] = opLDHAn
	opcodeTable[0xE2] = opLDHCMemA
	opcodeTable[0xF2] = opLDHACMem
	opcodeTable[0xEA] = opLDa16A
	opcodeTable[0xFA] = opLDAa16

	opcodeTable[0xC3] = opJPa16
	opcodeTable[0xE9] = opJPHL
	opcodeTable[0x18] = opJRr8
	opcodeTable[0xCD] = opCALLa16
	opcodeTable[0xC9] = opRET
	opcodeTable[0xD9] = opRETI

	opcodeTable[0xF8] = opLDHLSPr8
	opcodeTable[0xF9] = opLDSPHL
	opcodeTable[0xE8] = opADDSPr8

	opcodeTable[0xF3] = opDI
	opcodeTable[0xFB] = opEI
	opcodeTable[0x10] = opSTOP

	initLoadGroup()
	initIncDecGroup8()
	initALUGroup()
	init16BitGroup()
	initBranchGroup()
	initStackGroup()
}

func opNOP(c *CPU) int { return 4 }

func opRLCA(c *CPU) int {
	cval := (c.A >> 7) & 1
	c.A = (c.A << 1) | cval
	c.setZNHC(false, false, false, cval == 1)
	return 4
}

func opRRCA(c *CPU) int {
	cval := c.A & 1
	c.A = (c.A >> 1) | (cval << 7)
	c.setZNHC(false, false, false, cval == 1)
	return 4
}

func opRLA(c *CPU) int {
	cval := (c.A >> 7) & 1
	carry := byte(0)
	if c.F&flagC != 0 {
		carry = 1
	}
	c.A = (c.A << 1) | carry
	c.setZNHC(false, false, false, cval == 1)
	return 4
}

func opRRA(c *CPU) int {
	cval := c.A & 1
	carry := byte(0)
	if c.F&flagC != 0 {
		carry = 1
	}
	c.A = (c.A >> 1) | (carry << 7)
	c.setZNHC(false, false, false, cval == 1)
	return 4
}

func opDAA(c *CPU) int {
	a := c.A
	cf := c.F&flagC != 0
	if c.F&flagN == 0 { // after addition
		if cf || a > 0x99 {
			a += 0x60
			cf = true
		}
		if c.F&flagH != 0 || a&0x0F > 9 {
			a += 0x06
		}
	} else { // after subtraction
		if cf {
			a -= 0x60
		}
		if c.F&flagH != 0 {
			a -= 0x06
		}
	}
	c.A = a
	c.setZNHC(c.A == 0, c.F&flagN != 0, false, cf)
	return 4
}

func opCPL(c *CPU) int {
	c.A = ^c.A
	c.F = (c.F & (flagZ | flagC)) | flagN | flagH
	return 4
}

func opSCF(c *CPU) int {
	c.F = (c.F & flagZ) | flagC
	return 4
}

func opCCF(c *CPU) int {
	if c.F&flagC != 0 {
		c.F &^= flagC
	} else {
		c.F |= flagC
	}
	c.F &^= flagN | flagH
	c.F &= flagZ | flagC
	return 4
}

func opLDHLIncA(c *CPU) int {
	hl := c.getHL()
	c.write8(hl, c.A)
	c.setHL(hl + 1)
	return 8
}

func opLDAHLInc(c *CPU) int {
	hl := c.getHL()
	c.A = c.read8(hl)
	c.setHL(hl + 1)
	return 8
}

func opLDHLDecA(c *CPU) int {
	hl := c.getHL()
	c.write8(hl, c.A)
	c.setHL(hl - 1)
	return 8
}

func opLDAHLDec(c *CPU) int {
	hl := c.getHL()
	c.A = c.read8(hl)
	c.setHL(hl - 1)
	return 8
}

func opLDa16SP(c *CPU) int {
	addr := c.fetch16()
	c.write16(addr, c.SP)
	return 20
}

func opLDHnA(c *CPU) int {
	n := uint16(c.fetch8())
	c.write8(0xFF00+n, c.A)
	return 12
}

func opLDHAn(c *CPU) int {
	n := uint16(c.fetch8())
	c.A = c.read8(0xFF00 + n)
	return 12
}

func opLDHCMemA(c *CPU) int {
	c.write8(0xFF00+uint16(c.C), c.A)
	return 8
}

func opLDHACMem(c *CPU) int {
	c.A = c.read8(0xFF00 + uint16(c.C))
	return 8
}

func opLDa16A(c *CPU) int {
	addr := c.fetch16()
	c.write8(addr, c.A)
	return 16
}

func opLDAa16(c *CPU) int {
	addr := c.fetch16()
	c.A = c.read8(addr)
	return 16
}

func opJPa16(c *CPU) int {
	c.PC = c.fetch16()
	return 16
}

func opJPHL(c *CPU) int {
	c.PC = c.getHL()
	return 4
}

func opJRr8(c *CPU) int {
	off := int8(c.fetch8())
	c.PC = uint16(int32(c.PC) + int32(off))
	return 12
}

func opCALLa16(c *CPU) int {
	addr := c.fetch16()
	c.push16(c.PC)
	c.PC = addr
	return 24
}

func opRET(c *CPU) int {
	c.PC = c.pop16()
	return 16
}

func opRETI(c *CPU) int {
	c.PC = c.pop16()
	c.IME = true
	return 16
}

func opLDHLSPr8(c *CPU) int {
	off := int8(c.fetch8())
	res := uint16(int32(int16(c.SP)) + int32(off))
	low := byte(c.SP & 0xFF)
	_, _, _, h, cy := add8(low, byte(off))
	c.setHL(res)
	c.setZNHC(false, false, h, cy)
	return 12
}

func opLDSPHL(c *CPU) int {
	c.SP = c.getHL()
	return 8
}

func opADDSPr8(c *CPU) int {
	off := int8(c.fetch8())
	low := byte(c.SP & 0xFF)
	_, _, _, h, cy := add8(low, byte(off))
	c.SP = uint16(int32(int16(c.SP)) + int32(off))
	c.setZNHC(false, false, h, cy)
	return 16
}

func opDI(c *CPU) int {
	c.IME = false
	c.eiDelay = 0
	return 4
}

func opEI(c *CPU) int {
	c.eiDelay = 2 // takes effect after the following instruction
	return 4
}

func opSTOP(c *CPU) int {
	c.fetch8() // second byte, conventionally 0x00
	c.stopped = true
	return 4
}

func opHALT(c *CPU) int {
	if !c.IME && c.pendingInterrupt() {
		// HALT bug: CPU doesn't actually halt, but the following opcode
		// byte is fetched twice (PC fails to advance once).
		c.haltBug = true
	} else {
		c.halted = true
	}
	return 4
}

func opCBPrefix(c *CPU) int {
	cb := c.fetch8()
	return cbOpcodeTable[cb](c)
}

// initLoadGroup builds LD r,d8 (0x06 | r<<3, including (HL),d8 at 0x36)
// and LD r,r' (0x40-0x7F, minus 0x76 which is HALT).
func initLoadGroup() {
	for r := byte(0); r < 8; r++ {
		r := r
		op := 0x06 | r<<3
		opcodeTable[op] = func(c *CPU) int {
			v := c.fetch8()
			c.setReg8(r, v)
			if isMemSlot(r) {
				return 12
			}
			return 8
		}
	}

	for dst := byte(0); dst < 8; dst++ {
		for src := byte(0); src < 8; src++ {
			op := 0x40 | dst<<3 | src
			if op == 0x76 {
				continue // HALT occupies this slot
			}
			dst, src := dst, src
			opcodeTable[op] = func(c *CPU) int {
				c.setReg8(dst, c.reg8(src))
				if isMemSlot(dst) || isMemSlot(src) {
					return 8
				}
				return 4
			}
		}
	}
}

// initIncDecGroup8 builds INC r / DEC r (0x04|r<<3 and 0x05|r<<3,
// including INC/DEC (HL) at 0x34/0x35) over the eight register slots.
func initIncDecGroup8() {
	for r := byte(0); r < 8; r++ {
		r := r
		opcodeTable[0x04|r<<3] = func(c *CPU) int {
			old := c.reg8(r)
			c.setReg8(r, old+1)
			c.setZNHC(old+1 == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
			if isMemSlot(r) {
				return 12
			}
			return 4
		}
		opcodeTable[0x05|r<<3] = func(c *CPU) int {
			old := c.reg8(r)
			c.setReg8(r, old-1)
			c.setZNHC(old-1 == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
			if isMemSlot(r) {
				return 12
			}
			return 4
		}
	}
}

// initALUGroup builds the register (0x80-0xBF) and immediate
// (0xC6-0xFE) forms of ADD/ADC/SUB/SBC/AND/XOR/OR/CP.
func initALUGroup() {
	for aluIdx := byte(0); aluIdx < 8; aluIdx++ {
		for reg := byte(0); reg < 8; reg++ {
			aluIdx, reg := aluIdx, reg
			opcodeTable[0x80|aluIdx<<3|reg] = func(c *CPU) int {
				c.aluApply(aluIdx, c.reg8(reg))
				if isMemSlot(reg) {
					return 8
				}
				return 4
			}
		}
		aluIdx := aluIdx
		opcodeTable[0xC6|aluIdx<<3] = func(c *CPU) int {
			c.aluApply(aluIdx, c.fetch8())
			return 8
		}
	}
}

// init16BitGroup builds INC rr / DEC rr / ADD HL,rr / LD rr,d16 over the
// four register pairs (BC, DE, HL, SP), and LD (BC),A / (DE),A and their
// A,(rr) mirrors over the two pairs that support indirect addressing.
func init16BitGroup() {
	for p := byte(0); p < 4; p++ {
		p := p
		opcodeTable[0x01|p<<4] = func(c *CPU) int { c.setPair16(p, c.fetch16()); return 12 }
		opcodeTable[0x03|p<<4] = func(c *CPU) int { c.setPair16(p, c.pair16(p)+1); return 8 }
		opcodeTable[0x0B|p<<4] = func(c *CPU) int { c.setPair16(p, c.pair16(p)-1); return 8 }
		opcodeTable[0x09|p<<4] = func(c *CPU) int {
			hl := c.getHL()
			rr := c.pair16(p)
			r := uint32(hl) + uint32(rr)
			h := (hl&0x0FFF)+(rr&0x0FFF) > 0x0FFF
			c.setHL(uint16(r))
			c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
			return 8
		}
	}

	for p := byte(0); p < 2; p++ { // BC=0, DE=1
		p := p
		opcodeTable[0x02|p<<4] = func(c *CPU) int { c.write8(c.pair16(p), c.A); return 8 }
		opcodeTable[0x0A|p<<4] = func(c *CPU) int { c.A = c.read8(c.pair16(p)); return 8 }
	}
}

// initBranchGroup builds JR cc,r8 (0x20|cc<<3) and the shared JP/CALL/RET
// cc family (0xC0-0xDF) over the four branch conditions NZ, Z, NC, C.
func initBranchGroup() {
	for cc := byte(0); cc < 4; cc++ {
		cc := cc
		opcodeTable[0x20|cc<<3] = func(c *CPU) int {
			off := int8(c.fetch8())
			if branchConds[cc](c) {
				c.PC = uint16(int32(c.PC) + int32(off))
				return 12
			}
			return 8
		}
		opcodeTable[0xC2|cc<<3] = func(c *CPU) int {
			addr := c.fetch16()
			if branchConds[cc](c) {
				c.PC = addr
				return 16
			}
			return 12
		}
		opcodeTable[0xC4|cc<<3] = func(c *CPU) int {
			addr := c.fetch16()
			if branchConds[cc](c) {
				c.push16(c.PC)
				c.PC = addr
				return 24
			}
			return 12
		}
		opcodeTable[0xC0|cc<<3] = func(c *CPU) int {
			if branchConds[cc](c) {
				c.PC = c.pop16()
				return 20
			}
			return 8
		}
	}
}

// initStackGroup builds RST t (0xC7|t<<3) and PUSH/POP rr (0xC1/0xC5 |
// p<<4) over the BC/DE/HL/AF register-pair ordering PUSH and POP use.
func initStackGroup() {
	for t := byte(0); t < 8; t++ {
		target := uint16(t) * 8
		opcodeTable[0xC7|t<<3] = func(c *CPU) int {
			c.push16(c.PC)
			c.PC = target
			return 16
		}
	}

	for p := byte(0); p < 4; p++ {
		p := p
		opcodeTable[0xC5|p<<4] = func(c *CPU) int { c.push16(c.stackPair(p)); return 16 }
		opcodeTable[0xC1|p<<4] = func(c *CPU) int { c.setStackPair(p, c.pop16()); return 12 }
	}
}
