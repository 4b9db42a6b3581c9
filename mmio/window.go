package mmio

import "fmt"

// Register addresses.
const (
	VIF0FIFO uint32 = 0x10004000
	VIF1FIFO uint32 = 0x10005000
	GIFFIFO  uint32 = 0x10006000
	IPUOut   uint32 = 0x10007000
	IPUIn    uint32 = 0x10007010

	VIF0Stat uint32 = 0x10003800
	VIF1Stat uint32 = 0x10003C00
	GIFStat  uint32 = 0x10003020
)

// Window identifies which FIFO port an address falls into.
type Window int

// The FIFO windows.
const (
	WindowNone Window = iota
	WindowVIF0
	WindowVIF1
	WindowGIF
	WindowIPU
)

func (w Window) String() string {
	switch w {
	case WindowNone:
		return "none"
	case WindowVIF0:
		return "VIF0"
	case WindowVIF1:
		return "VIF1"
	case WindowGIF:
		return "GIF"
	case WindowIPU:
		return "IPU"
	default:
		return fmt.Sprintf("Window(%d)", int(w))
	}
}

// Decode maps addr to its FIFO window. Every offset inside a window aliases
// the same port.
func Decode(addr uint32) Window {
	if addr&0xFFFF0000 != 0x10000000 {
		return WindowNone
	}

	switch addr & 0xF000 {
	case 0x4000:
		return WindowVIF0
	case 0x5000:
		return WindowVIF1
	case 0x6000:
		return WindowGIF
	case 0x7000:
		return WindowIPU
	default:
		return WindowNone
	}
}

// isIPUIn tells if an IPU window address selects the input FIFO.
func isIPUIn(addr uint32) bool {
	return addr&0x10 != 0
}
