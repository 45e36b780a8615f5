package isa

// Armv6M decodes ARMv6-M Thumb instructions. It holds no mutable state and
// is safe to share across goroutines — the "singleton ISA decoder" of spec
// §9 is realized here as a zero-size value rather than a package-level
// mutable global.
type Armv6M struct{}

// NewArmv6M constructs the ARMv6-M decoder. There is nothing to configure;
// the constructor exists so call sites read the same way regardless of
// which architecture's decoder they hold.
func NewArmv6M() Armv6M { return Armv6M{} }

// Length reports whether the half-word beginning at the given address is
// the first half of a 32-bit Thumb-2 instruction (BL, or the ISB/DSB/DMB
// hint encodings), per spec §4.1: Length = 4 iff the top 5 bits of the
// first half-word match a 32-bit-thumb encoding prefix (0b11101, 0b11110,
// 0b11111).
func Length(firstHalfword uint16) uint8 {
	top5 := firstHalfword >> 11
	if top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111 {
		return 4
	}
	return 2
}

// Decode classifies one instruction. hw1 is the first (lowest-address)
// half-word; hw2 is the second half-word and is ignored unless Length(hw1)
// reports a 32-bit instruction.
func (Armv6M) Decode(hw1, hw2 uint16, address uint32) (Instruction, error) {
	length := Length(hw1)
	if length == 4 {
		return decode32(hw1, hw2, address)
	}
	return decode16(hw1, address)
}

func decode16(hw uint16, address uint32) (Instruction, error) {
	raw := uint32(hw)
	top5 := hw >> 11
	top6 := hw >> 10
	top8 := hw >> 8

	switch {
	// Format 1/2: shift / add / sub (register or 3-bit immediate) — 000xx
	case top5 <= 0b00011:
		return ins(address, raw, 2, Arithmetic), nil

	// Format 3: MOV/CMP/ADD/SUB immediate — 001xx
	case top5 >= 0b00100 && top5 <= 0b00111:
		return ins(address, raw, 2, Arithmetic), nil

	// Format 4: ALU operations (AND, EOR, ... , MUL, BIC, MVN) — 010000
	case top6 == 0b010000:
		return ins(address, raw, 2, Arithmetic), nil

	// Format 5: hi-register ops / BX / BLX — 010001
	case top6 == 0b010001:
		return decodeHiRegOp(hw, address)

	// Format 6: LDR (PC-relative literal pool) — 01001x
	case (hw>>11) == 0b01001:
		return ins(address, raw, 2, Load), nil

	// Format 7/8: load/store with register offset — 0101xx
	case top6 == 0b010100 || top6 == 0b010101 || top6 == 0b010110 || top6 == 0b010111:
		opB := (hw >> 9) & 0x1
		opL := (hw >> 11) & 0x1
		if opB == 0 && opL == 0 {
			// distinguishes STR/STRH from LDR family via bit9/bit11 combos;
			// conservatively classify the L=0 half as Store, L=1 as Load.
		}
		if (hw>>11)&0x1 == 1 {
			return ins(address, raw, 2, Load), nil
		}
		return ins(address, raw, 2, Store), nil

	// Format 9: load/store word/byte immediate offset — 011xx
	case top5 >= 0b01100 && top5 <= 0b01111:
		if (hw>>11)&0x1 == 1 {
			return ins(address, raw, 2, Load), nil
		}
		return ins(address, raw, 2, Store), nil

	// Format 10: load/store halfword immediate offset — 1000xx
	case top5 == 0b10000 || top5 == 0b10001:
		if (hw>>11)&0x1 == 1 {
			return ins(address, raw, 2, Load), nil
		}
		return ins(address, raw, 2, Store), nil

	// Format 11: SP-relative load/store — 1001xx
	case top5 == 0b10010 || top5 == 0b10011:
		if (hw>>11)&0x1 == 1 {
			return ins(address, raw, 2, Load), nil
		}
		return ins(address, raw, 2, Store), nil

	// Format 12: load address (ADR/ADD Rd,PC/SP,#imm) — 1010xx
	case top5 == 0b10100 || top5 == 0b10101:
		return ins(address, raw, 2, Arithmetic), nil

	// Format 13: add offset to SP — 10110000
	case top8 == 0b10110000:
		return ins(address, raw, 2, Arithmetic), nil

	// Format 14: PUSH/POP — 1011_010R (push) / 1011_110R (pop)
	case top4(hw) == 0b1011 && ((hw>>9)&0x3) == 0b10 && (hw>>11)&0x1 == 0b0:
		return decodePushPop(hw, address, false)
	case top4(hw) == 0b1011 && ((hw>>9)&0x3) == 0b10 && (hw>>11)&0x1 == 0b1:
		return decodePushPop(hw, address, true)

	// CPS / REV / hint / misc (1011_0xx0 and 1011_1111 etc.) — approximate
	// as System when not matched by a more specific pattern below.
	case top7(hw) == 0b1011011 || top7(hw) == 0b1011001 || top8 == 0b10110110:
		return ins(address, raw, 2, System), nil

	// Format 15: STM/LDM — 1100x
	case top5 == 0b11000 || top5 == 0b11001:
		return decodeStmLdm(hw, address)

	// Format 17: SVC / BKPT — 1011_1110 (BKPT), 1101_1111 (SVC)
	case top8 == 0b10111110:
		return ins(address, raw, 2, System), nil
	case top8 == 0b11011111:
		return ins(address, raw, 2, System), nil

	// Format 16: conditional branch — 1101xxxx (cond != 1110, 1111)
	case top4(hw) == 0b1101:
		cond := (hw >> 8) & 0xF
		if cond == 0xE || cond == 0xF {
			return ins(address, raw, 2, System), nil
		}
		i := ins(address, raw, 2, BranchCond)
		i.Displacement = DispShort
		i.Target = condBranchTarget(hw, address)
		return i, nil

	// Format 18: unconditional branch — 11100x
	case top7(hw) == 0b1110000 || top7(hw) == 0b1110001:
		i := ins(address, raw, 2, BranchUncond)
		i.Displacement = DispShort
		i.Target = uncondBranchTarget(hw, address)
		return i, nil

	// NOP/YIELD/WFE/WFI/SEV (1011_1111_xxxx_0000, hint space) and plain MOV r8,r8 NOP
	case hw == 0x46C0 || top8 == 0b10111111:
		return ins(address, raw, 2, System), nil

	default:
		return Instruction{}, &DecodeError{Address: address, Halfword: hw}
	}
}

func top4(hw uint16) uint16 { return hw >> 12 }
func top7(hw uint16) uint16 { return hw >> 9 }

func decodeHiRegOp(hw uint16, address uint32) (Instruction, error) {
	raw := uint32(hw)
	op := (hw >> 8) & 0x3
	switch op {
	case 0b00, 0b01, 0b10:
		return ins(address, raw, 2, Arithmetic), nil
	case 0b11:
		// BX Rm (bit7==0) / BLX Rm (bit7==1)
		if (hw>>7)&0x1 == 1 {
			return ins(address, raw, 2, CallIndirect), nil
		}
		rm := Reg((hw >> 3) & 0xF)
		if rm == LR {
			return ins(address, raw, 2, Return), nil
		}
		i := ins(address, raw, 2, BranchUncond)
		i.Displacement = DispIndirect
		return i, nil
	}
	return Instruction{}, &DecodeError{Address: address, Halfword: hw}
}

func decodePushPop(hw uint16, address uint32, pop bool) (Instruction, error) {
	raw := uint32(hw)
	i := ins(address, raw, 2, MultiRegMem)
	rBit := (hw >> 8) & 0x1
	list := registerListFromMask(hw & 0xFF)
	if pop {
		if rBit == 1 {
			list = append(list, PC)
		}
	} else {
		if rBit == 1 {
			list = append(list, LR)
		}
	}
	i.RegisterList = list
	if pop && i.PCInList() {
		// "pop {..., pc}" behaves as a function return.
	}
	return i, nil
}

func decodeStmLdm(hw uint16, address uint32) (Instruction, error) {
	raw := uint32(hw)
	i := ins(address, raw, 2, MultiRegMem)
	i.RegisterList = registerListFromMask(hw & 0xFF)
	return i, nil
}

func registerListFromMask(mask uint16) []Reg {
	var out []Reg
	for b := 0; b < 8; b++ {
		if mask&(1<<uint(b)) != 0 {
			out = append(out, Reg(b))
		}
	}
	return out
}

func ins(address uint32, raw uint32, length uint8, class Class) Instruction {
	return Instruction{Address: address, Raw: raw, Length: length, Class: class}
}

// condBranchTarget decodes the 16-bit Bcond target per spec §4.1:
// target = pc + 4 + 2*sign_extend(imm8).
func condBranchTarget(hw uint16, address uint32) *uint32 {
	imm8 := int32(int8(hw & 0xFF))
	t := uint32(int64(address) + 4 + 2*int64(imm8))
	return &t
}

// uncondBranchTarget decodes the 16-bit B target: target = pc + 4 +
// 2*sign_extend(imm11).
func uncondBranchTarget(hw uint16, address uint32) *uint32 {
	imm11 := hw & 0x7FF
	v := int32(imm11)
	if v&0x400 != 0 {
		v -= 0x800
	}
	t := uint32(int64(address) + 4 + 2*int64(v))
	return &t
}

func decode32(hw1, hw2 uint16, address uint32) (Instruction, error) {
	raw := (uint32(hw1) << 16) | uint32(hw2)

	// ISB/DSB/DMB: 1111 0011 1011 1111 1000 1111 0ioo oooo
	if hw1 == 0xF3BF && (hw2>>4) == 0x8F5 {
		return ins(address, raw, 4, MemBarrier), nil // DMB
	}
	if hw1 == 0xF3BF && (hw2>>4) == 0x8F4 {
		return ins(address, raw, 4, MemBarrier), nil // DSB
	}
	if hw1 == 0xF3BF && (hw2>>4) == 0x8F6 {
		return ins(address, raw, 4, MemBarrier), nil // ISB
	}

	// BL: 11110Sxxxxxxxxxx 11J1Jxxxxxxxxxxx (encoding T1)
	if (hw1>>11) == 0b11110 && (hw2>>14) == 0b11 && (hw2>>12)&0x1 == 1 {
		i := ins(address, raw, 4, Call)
		i.Displacement = DispLong
		i.Target = blTarget(hw1, hw2, address)
		return i, nil
	}

	return Instruction{}, &DecodeError{Address: address, Halfword: hw1}
}

// blTarget implements spec §4.1's BL target formula:
//
//	pc + 4 + sign_extend(S:I1:I2:imm10:imm11:0)
//	I1 = ¬(J1⊕S), I2 = ¬(J2⊕S)
func blTarget(hw1, hw2 uint16, address uint32) *uint32 {
	s := uint32((hw1 >> 10) & 0x1)
	imm10 := uint32(hw1 & 0x3FF)
	j1 := uint32((hw2 >> 13) & 0x1)
	j2 := uint32((hw2 >> 11) & 0x1)
	imm11 := uint32(hw2 & 0x7FF)

	i1 := uint32(1) - (j1 ^ s)
	i2 := uint32(1) - (j2 ^ s)

	offset := (s << 24) | (i1 << 23) | (i2 << 22) | (imm10 << 12) | (imm11 << 1)
	// sign-extend from bit 24
	signed := int32(offset << 7) >> 7
	t := uint32(int64(address) + 4 + int64(signed))
	return &t
}
