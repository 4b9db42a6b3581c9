package regs

import "fmt"

var (
	vifVPS = field{shift: 0, width: 2}
	vifVEW = bit(2)
	vifVGW = bit(3)
	vifMRK = bit(6)
	vifDBF = bit(7)
	vifVSS = bit(8)
	vifVFS = bit(9)
	vifVIS = bit(10)
	vifINT = bit(11)
	vifER0 = bit(12)
	vifER1 = bit(13)
	vifFDR = bit(23)
)

// VIFID selects the channel a status word belongs to. The layouts differ
// only in the width of FQC: four bits on VIF0, five on VIF1.
type VIFID uint8

// The vector channels.
const (
	VIF0 VIFID = iota
	VIF1
)

func (id VIFID) fqc() field {
	if id == VIF0 {
		return field{shift: 24, width: 4}
	}

	return field{shift: 24, width: 5}
}

func (id VIFID) maxQueuedCount() uint8 {
	return uint8(min(MaxQueuedCount, id.fqc().mask()>>24))
}

func (id VIFID) definedBits() uint32 {
	return vifVPS.mask() | vifVEW.mask() | vifVGW.mask() | vifMRK.mask() |
		vifDBF.mask() | vifVSS.mask() | vifVFS.mask() | vifVIS.mask() |
		vifINT.mask() | vifER0.mask() | vifER1.mask() | vifFDR.mask() |
		id.fqc().mask()
}

// VIFStat is the status register of a vector channel.
type VIFStat struct {
	Progress        Progress
	MicroBusy       bool // VEW, waiting for the micro program to end
	GatherWait      bool // VGW, flush blocked until the arbiter releases it
	Mark            bool
	DoubleBuffer    bool
	StallStop       bool // VSS
	StallForceBreak bool // VFS
	StallInterrupt  bool // VIS
	Interrupt       bool // INT
	MismatchError   bool // ER0
	ReservedError   bool // ER1
	Direction       Direction
	QueuedCount     uint8
}

// Stalled tells if any of the interrupt or stall conditions is raised.
func (s VIFStat) Stalled() bool {
	return s.Interrupt || s.StallStop || s.StallInterrupt || s.StallForceBreak
}

// Validate checks that the record is one the VIF1 register can hold.
func (s VIFStat) Validate() error {
	return s.ValidateFor(VIF1)
}

// ValidateFor checks that the record is one the register of channel id can
// hold.
func (s VIFStat) ValidateFor(id VIFID) error {
	if !s.Progress.valid() {
		return fmt.Errorf("%w: progress %d", ErrInvalidEncoding, s.Progress)
	}

	if s.QueuedCount > id.maxQueuedCount() {
		return fmt.Errorf("%w: queued count %d", ErrInvalidEncoding, s.QueuedCount)
	}

	if s.Direction > Download {
		return fmt.Errorf("%w: direction %d", ErrInvalidEncoding, s.Direction)
	}

	return nil
}

// Encode produces the raw VIF1 register image.
func (s VIFStat) Encode() (uint32, error) {
	return s.EncodeFor(VIF1)
}

// EncodeFor produces the raw register image of channel id.
func (s VIFStat) EncodeFor(id VIFID) (uint32, error) {
	if err := s.ValidateFor(id); err != nil {
		return 0, err
	}

	var raw uint32
	raw = vifVPS.put(raw, uint32(s.Progress))
	raw = putFlag(raw, vifVEW, s.MicroBusy)
	raw = putFlag(raw, vifVGW, s.GatherWait)
	raw = putFlag(raw, vifMRK, s.Mark)
	raw = putFlag(raw, vifDBF, s.DoubleBuffer)
	raw = putFlag(raw, vifVSS, s.StallStop)
	raw = putFlag(raw, vifVFS, s.StallForceBreak)
	raw = putFlag(raw, vifVIS, s.StallInterrupt)
	raw = putFlag(raw, vifINT, s.Interrupt)
	raw = putFlag(raw, vifER0, s.MismatchError)
	raw = putFlag(raw, vifER1, s.ReservedError)
	raw = vifFDR.put(raw, uint32(s.Direction))
	raw = id.fqc().put(raw, uint32(s.QueuedCount))

	return raw, nil
}

// MustEncode is Encode for records the caller knows are valid.
func (s VIFStat) MustEncode() uint32 {
	raw, err := s.Encode()
	if err != nil {
		panic(err)
	}

	return raw
}

// DecodeVIFStat parses a raw VIF1 register image.
func DecodeVIFStat(raw uint32) (VIFStat, error) {
	return DecodeVIFStatFor(VIF1, raw)
}

// DecodeVIFStatFor parses a raw register image of channel id. Undefined
// bits are rejected.
func DecodeVIFStatFor(id VIFID, raw uint32) (VIFStat, error) {
	if undefined := raw &^ id.definedBits(); undefined != 0 {
		return VIFStat{}, fmt.Errorf("%w: undefined bits 0x%08X",
			ErrInvalidEncoding, undefined)
	}

	s := VIFStat{
		Progress:        Progress(vifVPS.get(raw)),
		MicroBusy:       flag(raw, vifVEW),
		GatherWait:      flag(raw, vifVGW),
		Mark:            flag(raw, vifMRK),
		DoubleBuffer:    flag(raw, vifDBF),
		StallStop:       flag(raw, vifVSS),
		StallForceBreak: flag(raw, vifVFS),
		StallInterrupt:  flag(raw, vifVIS),
		Interrupt:       flag(raw, vifINT),
		MismatchError:   flag(raw, vifER0),
		ReservedError:   flag(raw, vifER1),
		Direction:       Direction(vifFDR.get(raw)),
		QueuedCount:     uint8(id.fqc().get(raw)),
	}

	if err := s.ValidateFor(id); err != nil {
		return VIFStat{}, err
	}

	return s, nil
}

func (s VIFStat) String() string {
	return fmt.Sprintf("VPS=%s VGW=%t FDR=%s FQC=%d stalled=%t",
		s.Progress, s.GatherWait, s.Direction, s.QueuedCount, s.Stalled())
}
