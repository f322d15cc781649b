package callconv

import (
	"fmt"

	"github.com/cilium/ebpf/asm"
)

const addTwoSymbol = "add_two"

// Return42Program sets R0, the result register, and exits.
func Return42Program() asm.Instructions {
	return asm.Instructions{
		asm.Mov.Imm(asm.R0, 42).WithSymbol("return_42"),
		asm.Return(),
	}
}

// AddTwoProgram loads a and b into the first two argument registers and
// calls a local function that adds them into R0.
func AddTwoProgram(a, b int32) asm.Instructions {
	return asm.Instructions{
		asm.Mov.Imm(asm.R1, a).WithSymbol("add_two_main"),
		asm.Mov.Imm(asm.R2, b),
		asm.Call.Label(addTwoSymbol),
		asm.Return(),

		asm.Mov.Reg(asm.R0, asm.R1).WithSymbol(addTwoSymbol),
		asm.Add.Reg(asm.R0, asm.R2),
		asm.Return(),
	}
}

// CheckSubprogramABI rejects programs that touch memory or call anything
// other than local BPF-to-BPF functions: the demo programs pass everything
// in registers.
func CheckSubprogramABI(insns asm.Instructions) error {
	if len(insns) == 0 {
		return fmt.Errorf("no instructions")
	}
	for i, insn := range insns {
		if insn.OpCode.Class().IsLoad() || insn.OpCode.Class().IsStore() {
			return fmt.Errorf("insn %d: memory access %v", i, insn)
		}
		if insn.OpCode.Class().IsJump() && insn.OpCode.JumpOp() == asm.Call && !insn.IsFunctionCall() {
			return fmt.Errorf("insn %d: only bpf2bpf calls allowed: %v", i, insn)
		}
	}
	return nil
}
