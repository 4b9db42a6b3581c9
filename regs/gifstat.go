package regs

import "fmt"

var (
	gifM3R   = bit(0)
	gifM3P   = bit(1)
	gifIMT   = bit(2)
	gifPSE   = bit(3)
	gifIP3   = bit(5)
	gifP3Q   = bit(6)
	gifP2Q   = bit(7)
	gifP1Q   = bit(8)
	gifOPH   = bit(9)
	gifAPATH = field{shift: 10, width: 2}
	gifDIR   = bit(12)
	gifFQC   = field{shift: 24, width: 5}
)

var gifDefinedBits = gifM3R.mask() | gifM3P.mask() | gifIMT.mask() |
	gifPSE.mask() | gifIP3.mask() | gifP3Q.mask() | gifP2Q.mask() |
	gifP1Q.mask() | gifOPH.mask() | gifAPATH.mask() | gifDIR.mask() |
	gifFQC.mask()

// GIFStat is the status register of the graphics-input arbiter.
type GIFStat struct {
	Path3MaskedByReg  bool // M3R
	Path3Masked       bool // M3P
	Path3Intermittent bool // IMT
	Paused            bool // PSE
	Path3Interrupted  bool // IP3
	Path3Queued       bool // P3Q
	Path2Queued       bool // P2Q
	Path1Queued       bool // P1Q
	OutputActive      bool // OPH
	ActivePath        PathID
	Direction         Direction
	QueuedCount       uint8
}

// Validate checks that the record is one the hardware can hold.
func (s GIFStat) Validate() error {
	if s.ActivePath > Path3 {
		return fmt.Errorf("%w: active path %d", ErrInvalidEncoding, s.ActivePath)
	}

	if s.QueuedCount > MaxQueuedCount {
		return fmt.Errorf("%w: queued count %d", ErrInvalidEncoding, s.QueuedCount)
	}

	if s.Direction > Download {
		return fmt.Errorf("%w: direction %d", ErrInvalidEncoding, s.Direction)
	}

	return nil
}

// Encode produces the raw register image.
func (s GIFStat) Encode() (uint32, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	var raw uint32
	raw = putFlag(raw, gifM3R, s.Path3MaskedByReg)
	raw = putFlag(raw, gifM3P, s.Path3Masked)
	raw = putFlag(raw, gifIMT, s.Path3Intermittent)
	raw = putFlag(raw, gifPSE, s.Paused)
	raw = putFlag(raw, gifIP3, s.Path3Interrupted)
	raw = putFlag(raw, gifP3Q, s.Path3Queued)
	raw = putFlag(raw, gifP2Q, s.Path2Queued)
	raw = putFlag(raw, gifP1Q, s.Path1Queued)
	raw = putFlag(raw, gifOPH, s.OutputActive)
	raw = gifAPATH.put(raw, uint32(s.ActivePath))
	raw = gifDIR.put(raw, uint32(s.Direction))
	raw = gifFQC.put(raw, uint32(s.QueuedCount))

	return raw, nil
}

// MustEncode is Encode for records the caller knows are valid.
func (s GIFStat) MustEncode() uint32 {
	raw, err := s.Encode()
	if err != nil {
		panic(err)
	}

	return raw
}

// DecodeGIFStat parses a raw register image. Undefined bits are rejected.
func DecodeGIFStat(raw uint32) (GIFStat, error) {
	if undefined := raw &^ gifDefinedBits; undefined != 0 {
		return GIFStat{}, fmt.Errorf("%w: undefined bits 0x%08X",
			ErrInvalidEncoding, undefined)
	}

	s := GIFStat{
		Path3MaskedByReg:  flag(raw, gifM3R),
		Path3Masked:       flag(raw, gifM3P),
		Path3Intermittent: flag(raw, gifIMT),
		Paused:            flag(raw, gifPSE),
		Path3Interrupted:  flag(raw, gifIP3),
		Path3Queued:       flag(raw, gifP3Q),
		Path2Queued:       flag(raw, gifP2Q),
		Path1Queued:       flag(raw, gifP1Q),
		OutputActive:      flag(raw, gifOPH),
		ActivePath:        PathID(gifAPATH.get(raw)),
		Direction:         Direction(gifDIR.get(raw)),
		QueuedCount:       uint8(gifFQC.get(raw)),
	}

	if err := s.Validate(); err != nil {
		return GIFStat{}, err
	}

	return s, nil
}

// ReleasePath clears the active path and the output-busy flag.
func (s *GIFStat) ReleasePath() {
	s.ActivePath = PathNone
	s.OutputActive = false
}

func (s GIFStat) String() string {
	return fmt.Sprintf("APATH=%s OPH=%t M3P=%t FQC=%d",
		s.ActivePath, s.OutputActive, s.Path3Masked, s.QueuedCount)
}
