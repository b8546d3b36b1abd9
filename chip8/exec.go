package chip8

/// execute a decoded instruction. PC already points at the next one.
///
func (vm *VM) execute(inst Instruction, input Input) error {
	x, y := inst.X(), inst.Y()

	switch inst.Op {
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpJP:
		vm.jump(inst.NNN())
	case OpCALL:
		return vm.call(inst.NNN())
	case OpSEByte:
		vm.skipIf(vm.V[x] == inst.KK())
	case OpSNEByte:
		vm.skipIf(vm.V[x] != inst.KK())
	case OpSEReg:
		vm.skipIf(vm.V[x] == vm.V[y])
	case OpSNEReg:
		vm.skipIf(vm.V[x] != vm.V[y])
	case OpLDByte:
		vm.V[x] = inst.KK()
	case OpADDByte:
		vm.V[x] += inst.KK()
	case OpLDReg:
		vm.V[x] = vm.V[y]
	case OpOR:
		vm.V[x] |= vm.V[y]
	case OpAND:
		vm.V[x] &= vm.V[y]
	case OpXOR:
		vm.V[x] ^= vm.V[y]
	case OpADDReg:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHR:
		vm.shr(x)
	case OpSHL:
		vm.shl(x)
	case OpLDI:
		vm.I = inst.NNN()
	case OpJPV0:
		vm.jump(inst.NNN() + uint16(vm.V[0]))
	case OpRND:
		vm.V[x] = byte(vm.rng.Intn(0x100)) & inst.KK()
	case OpDRW:
		return vm.drw(x, y, inst.N())
	case OpSKP:
		vm.skipIf(input.KeyPressed(Key(vm.V[x] & 0xF)))
	case OpSKNP:
		vm.skipIf(!input.KeyPressed(Key(vm.V[x] & 0xF)))
	case OpLDVxDT:
		vm.V[x] = vm.Timers.Delay
	case OpLDVxK:
		vm.waitKey(x, input)
	case OpLDDTVx:
		vm.Timers.Delay = vm.V[x]
	case OpLDSTVx:
		vm.Timers.Sound = vm.V[x]
	case OpADDIVx:
		vm.I += uint16(vm.V[x])
	case OpLDFVx:
		vm.I = FontAddress + uint16(vm.V[x])*GlyphSize
	case OpLDBVx:
		return vm.loadB(x)
	case OpStore:
		return vm.saveRegs(x)
	case OpLoad:
		return vm.loadRegs(x)
	default:
		return UnrecognizedOpcode
	}

	return nil
}

/// clear the video display memory.
///
func (vm *VM) cls() {
	vm.Display.Clear()
}

/// call a subroutine at address.
///
func (vm *VM) call(address uint16) error {
	if err := vm.Stack.push(vm.PC); err != nil {
		return err
	}

	vm.PC = address
	return nil
}

/// return from subroutine.
///
func (vm *VM) ret() error {
	pc, err := vm.Stack.pop()
	if err != nil {
		return err
	}

	vm.PC = pc
	return nil
}

/// jump to address.
///
func (vm *VM) jump(address uint16) {
	vm.PC = address
}

/// skip the next instruction if cond holds.
///
func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.PC += 2
	}
}

/// add vy to vx and set carry.
///
func (vm *VM) addXY(x, y int) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *VM) subXY(x, y int) {
	carry := flag(vm.V[x] >= vm.V[y])

	vm.V[x] -= vm.V[y]
	vm.V[0xF] = carry
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *VM) subYX(x, y int) {
	carry := flag(vm.V[y] >= vm.V[x])

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.V[0xF] = carry
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *VM) shr(x int) {
	carry := vm.V[x] & 1

	vm.V[x] >>= 1
	vm.V[0xF] = carry
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *VM) shl(x int) {
	carry := vm.V[x] >> 7

	vm.V[x] <<= 1
	vm.V[0xF] = carry
}

/// draw a sprite at I to video memory at vx, vy.
///
func (vm *VM) drw(x, y, n int) error {
	sprite, err := vm.Memory.Slice(int(vm.I), n)
	if err != nil {
		return err
	}

	collision := vm.Display.Draw(int(vm.V[x]), int(vm.V[y]), sprite, vm.policy)

	// set carry flag if any collision occurred
	vm.V[0xF] = flag(collision)

	return nil
}

/// load address with BCD of vx.
///
func (vm *VM) loadB(x int) error {
	dst, err := vm.Memory.Slice(int(vm.I), 3)
	if err != nil {
		return err
	}

	n := uint16(vm.V[x])
	b := uint16(0)

	// double dabble: 8 shifts, adding 3 to any digit >= 5 before each
	for i := uint(0); i < 8; i++ {
		if b&0xF >= 5 {
			b += 3
		}
		if b>>4&0xF >= 5 {
			b += 3 << 4
		}
		if b>>8&0xF >= 5 {
			b += 3 << 8
		}

		// apply shift, pull next bit
		b = b<<1 | n>>(7-i)&1
	}

	dst[0] = byte(b>>8) & 0xF
	dst[1] = byte(b>>4) & 0xF
	dst[2] = byte(b) & 0xF

	return nil
}

/// save registers v0..vx to I.
///
func (vm *VM) saveRegs(x int) error {
	dst, err := vm.Memory.Slice(int(vm.I), x+1)
	if err != nil {
		return err
	}

	copy(dst, vm.V[:x+1])
	return nil
}

/// load registers v0..vx from I.
///
func (vm *VM) loadRegs(x int) error {
	src, err := vm.Memory.Slice(int(vm.I), x+1)
	if err != nil {
		return err
	}

	copy(vm.V[:x+1], src)
	return nil
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
