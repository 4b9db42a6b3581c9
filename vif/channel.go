// Package vif holds the per-channel state of the two vector-processing
// front ends and the interface of their command processors.
package vif

import "github.com/sarchlab/fifoemu/regs"

// A CommandProcessor executes the command stream of one vector channel.
type CommandProcessor interface {
	// Transfer consumes one quadword given as four 32-bit words. It returns
	// false when the processor stalls and cannot take the data.
	Transfer(words [4]uint32) bool

	// ActiveCommand tells if a command is currently being decoded.
	ActiveCommand() bool

	// CommandDone tells if the active command received all its data.
	CommandDone() bool
}

// Channel is the FIFO-side state of a vector channel.
type Channel struct {
	name string

	// Stat is the channel status register.
	Stat regs.VIFStat

	// QWC is the DMA quadword bookkeeping counter. Writes through the FIFO
	// raise it; the command processor lowers it as it consumes data.
	QWC uint32

	// DownloadCount is how many quadwords the renderer still owes the
	// channel in download mode.
	DownloadCount uint32

	// IRQOffset is the word offset at which an interrupt stall happened.
	IRQOffset uint32

	// StallEnabled is set while the channel is stalled on an interrupt.
	StallEnabled bool

	Processor CommandProcessor
}

// NewChannel creates a channel with all registers cleared.
func NewChannel(name string) *Channel {
	if name == "" {
		panic("channel name must not be empty")
	}

	return &Channel{name: name}
}

// Name returns the name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// StartDownload switches the channel into download mode and expects n
// quadwords from the renderer.
func (c *Channel) StartDownload(n uint32) {
	c.Stat.Direction = regs.Download
	c.DownloadCount = n
	c.Stat.QueuedCount = regs.ClampQueuedCount(n)
}

// FinishDownload returns the channel to upload mode.
func (c *Channel) FinishDownload() {
	c.Stat.Direction = regs.Upload
	c.DownloadCount = 0
	c.Stat.QueuedCount = 0
}

// ConsumeQuadword lowers QWC by one. Command processors call it for every
// quadword they finish with.
func (c *Channel) ConsumeQuadword() {
	if c.QWC > 0 {
		c.QWC--
	}
}
