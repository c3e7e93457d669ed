package cpu

// cbOpcodeTable is indexed by the byte following a 0xCB prefix. The four
// groups selected by the top two bits (rotate/shift/swap, BIT, RES, SET)
// are each built by a single loop over the eight register slots crossed
// with either the eight rotate kinds or the eight bit indices, rather
// than 32 individually written cases.
var cbOpcodeTable [256]opFunc

func init() {
	for y := byte(0); y < 8; y++ {
		for reg := byte(0); reg < 8; reg++ {
			y, reg := y, reg

			cbOpcodeTable[y<<3|reg] = func(c *CPU) int {
				v := c.reg8(reg)
				res, carry := cbRotateOps[y](c, v)
				c.setReg8(reg, res)
				c.setZNHC(res == 0, false, false, carry)
				if isMemSlot(reg) {
					return 16
				}
				return 8
			}

			cbOpcodeTable[0x40|y<<3|reg] = func(c *CPU) int {
				bit := (c.reg8(reg) >> y) & 1
				c.F = (c.F & flagC) | flagH
				if bit == 0 {
					c.F |= flagZ
				}
				if isMemSlot(reg) {
					return 12
				}
				return 8
			}

			cbOpcodeTable[0x80|y<<3|reg] = func(c *CPU) int {
				c.setReg8(reg, c.reg8(reg)&^(1<<y))
				if isMemSlot(reg) {
					return 16
				}
				return 8
			}

			cbOpcodeTable[0xC0|y<<3|reg] = func(c *CPU) int {
				c.setReg8(reg, c.reg8(reg)|(1<<y))
				if isMemSlot(reg) {
					return 16
				}
				return 8
			}
		}
	}
}
