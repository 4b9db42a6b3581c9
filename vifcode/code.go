// Package vifcode is a reference command processor for the vector channels.
// It decodes the VIF command stream, keeps the channel registers the
// commands set, and forwards DIRECT data to the graphics input as path 2.
package vifcode

import "fmt"

// Cmd is a VIF command number.
type Cmd uint8

// The VIF commands.
const (
	CmdNOP      Cmd = 0x00
	CmdSTCYCL   Cmd = 0x01
	CmdOFFSET   Cmd = 0x02
	CmdBASE     Cmd = 0x03
	CmdITOP     Cmd = 0x04
	CmdSTMOD    Cmd = 0x05
	CmdMSKPATH3 Cmd = 0x06
	CmdMARK     Cmd = 0x07
	CmdFLUSHE   Cmd = 0x10
	CmdFLUSH    Cmd = 0x11
	CmdFLUSHA   Cmd = 0x13
	CmdMSCAL    Cmd = 0x14
	CmdMSCALF   Cmd = 0x15
	CmdMSCNT    Cmd = 0x17
	CmdSTMASK   Cmd = 0x20
	CmdSTROW    Cmd = 0x30
	CmdSTCOL    Cmd = 0x31
	CmdMPG      Cmd = 0x4A
	CmdDIRECT   Cmd = 0x50
	CmdDIRECTHL Cmd = 0x51
)

var cmdNames = map[Cmd]string{
	CmdNOP:      "NOP",
	CmdSTCYCL:   "STCYCL",
	CmdOFFSET:   "OFFSET",
	CmdBASE:     "BASE",
	CmdITOP:     "ITOP",
	CmdSTMOD:    "STMOD",
	CmdMSKPATH3: "MSKPATH3",
	CmdMARK:     "MARK",
	CmdFLUSHE:   "FLUSHE",
	CmdFLUSH:    "FLUSH",
	CmdFLUSHA:   "FLUSHA",
	CmdMSCAL:    "MSCAL",
	CmdMSCALF:   "MSCALF",
	CmdMSCNT:    "MSCNT",
	CmdSTMASK:   "STMASK",
	CmdSTROW:    "STROW",
	CmdSTCOL:    "STCOL",
	CmdMPG:      "MPG",
	CmdDIRECT:   "DIRECT",
	CmdDIRECTHL: "DIRECTHL",
}

// vif1Only lists the commands VIF0 treats as NOP.
var vif1Only = map[Cmd]bool{
	CmdOFFSET:   true,
	CmdBASE:     true,
	CmdMSKPATH3: true,
	CmdFLUSH:    true,
	CmdFLUSHA:   true,
	CmdMSCALF:   true,
	CmdDIRECT:   true,
	CmdDIRECTHL: true,
}

// IsUnpack tells if c is one of the UNPACK variants.
func (c Cmd) IsUnpack() bool {
	return c&0x60 == 0x60
}

// Known tells if c is a command the hardware defines.
func (c Cmd) Known() bool {
	_, ok := cmdNames[c]
	return ok || c.IsUnpack()
}

func (c Cmd) String() string {
	if name, ok := cmdNames[c]; ok {
		return name
	}

	if c.IsUnpack() {
		return fmt.Sprintf("UNPACK(V%d-%d)", c.unpackVN()+1, 32>>c.unpackVL())
	}

	return fmt.Sprintf("Cmd(0x%02X)", uint8(c))
}

func (c Cmd) unpackVN() uint32 {
	return uint32(c>>2) & 3
}

func (c Cmd) unpackVL() uint32 {
	return uint32(c) & 3
}

// Code is one 32-bit VIF code.
type Code uint32

// Cmd returns the command, without the interrupt bit.
func (c Code) Cmd() Cmd {
	return Cmd((c >> 24) & 0x7F)
}

// Num returns the NUM field.
func (c Code) Num() uint8 {
	return uint8((c >> 16) & 0xFF)
}

// Imm returns the IMMEDIATE field.
func (c Code) Imm() uint16 {
	return uint16(c & 0xFFFF)
}

// IRQ tells if the code raises an interrupt.
func (c Code) IRQ() bool {
	return c>>31 != 0
}

func (c Code) String() string {
	return fmt.Sprintf("%s{num:0x%02X imm:0x%04X irq:%t}",
		c.Cmd(), c.Num(), c.Imm(), c.IRQ())
}

// MakeCode assembles a code.
func MakeCode(cmd Cmd, num uint8, imm uint16, irq bool) Code {
	c := Code(cmd&0x7F)<<24 | Code(num)<<16 | Code(imm)
	if irq {
		c |= 1 << 31
	}

	return c
}

// DataWords returns how many 32-bit words follow the code.
func (c Code) DataWords() uint32 {
	cmd := c.Cmd()

	switch {
	case cmd == CmdSTMASK:
		return 1
	case cmd == CmdSTROW, cmd == CmdSTCOL:
		return 4
	case cmd == CmdMPG:
		return count(uint32(c.Num()), 256) * 2
	case cmd == CmdDIRECT, cmd == CmdDIRECTHL:
		return count(uint32(c.Imm()), 65536) * 4
	case cmd.IsUnpack():
		bits := count(uint32(c.Num()), 256) *
			(cmd.unpackVN() + 1) * (32 >> cmd.unpackVL())

		return (bits + 31) / 32
	default:
		return 0
	}
}

// count reads a hardware count field where zero means max.
func count(n, limit uint32) uint32 {
	if n == 0 {
		return limit
	}

	return n
}
