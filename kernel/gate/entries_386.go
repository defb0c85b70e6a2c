//go:build 386

package gate

// Entry stubs for vectors FirstStubVector to FirstStubVector+NumEntryStubs-1.
// Each stub saves the general purpose registers, calls dispatch with its
// vector number and returns with IRET.
func irqEntry0()
func irqEntry1()
func irqEntry2()
func irqEntry3()
func irqEntry4()
func irqEntry5()
func irqEntry6()
func irqEntry7()
func irqEntry8()
func irqEntry9()
func irqEntry10()
func irqEntry11()
func irqEntry12()
func irqEntry13()
func irqEntry14()
func irqEntry15()

var irqEntries = [NumEntryStubs]func(){
	irqEntry0, irqEntry1, irqEntry2, irqEntry3,
	irqEntry4, irqEntry5, irqEntry6, irqEntry7,
	irqEntry8, irqEntry9, irqEntry10, irqEntry11,
	irqEntry12, irqEntry13, irqEntry14, irqEntry15,
}
