package project

import (
	"sort"
	"strconv"
	"strings"

	"reel/internal/faults"
	"reel/internal/shotcode"
)

// Shot is one shot of a sequence. Number is the shot number with its
// optional alternate suffix ("12A"); Code is the padded form ("SH012A").
type Shot struct {
	ID          int64
	SequenceID  int64
	Number      string
	Code        string
	Description string
	start       int
	end         int
}

// NewShot builds a shot with a valid frame range. Frames below 1 become 1
// and an end before the start is moved to the start.
func NewShot(codec shotcode.Codec, number string, start, end int) (Shot, error) {
	normalized, err := codec.Number(number)
	if err != nil {
		return Shot{}, err
	}
	code, err := codec.Code(normalized)
	if err != nil {
		return Shot{}, err
	}
	s := Shot{Number: normalized, Code: code, start: 1, end: 1}
	s.SetStartFrame(start)
	s.SetEndFrame(end)
	return s, nil
}

// StartFrame returns the first frame.
func (s Shot) StartFrame() int { return s.start }

// EndFrame returns the last frame.
func (s Shot) EndFrame() int { return s.end }

// Duration is the inclusive frame count, always at least 1.
func (s Shot) Duration() int {
	return s.EndFrame() - s.StartFrame() + 1
}

// SetStartFrame sets the first frame. A start past the end drags the end
// along.
func (s *Shot) SetStartFrame(frame int) {
	if frame < 1 {
		frame = 1
	}
	s.start = frame
	if s.end < s.start {
		s.end = s.start
	}
}

// SetEndFrame sets the last frame, clamped to the start frame.
func (s *Shot) SetEndFrame(frame int) {
	if frame < 1 {
		frame = 1
	}
	if s.start < 1 {
		s.start = 1
	}
	if frame < s.start {
		frame = s.start
	}
	s.end = frame
}

// ShotSet is an ordered, deduplicated list of shot numbers.
type ShotSet []string

// Add normalizes numbers and inserts those not already present. It returns
// the numbers that were new.
func (s *ShotSet) Add(codec shotcode.Codec, numbers ...string) ([]string, error) {
	present := make(map[string]struct{}, len(*s))
	for _, n := range *s {
		present[n] = struct{}{}
	}
	var added []string
	for _, raw := range numbers {
		n, err := codec.Number(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := present[n]; ok {
			continue
		}
		present[n] = struct{}{}
		added = append(added, n)
	}
	*s = append(*s, added...)
	s.sort()
	return added, nil
}

// Contains reports whether number (or its code) is in the set.
func (s ShotSet) Contains(codec shotcode.Codec, number string) bool {
	n, err := codec.Number(number)
	if err != nil {
		return false
	}
	for _, existing := range s {
		if existing == n {
			return true
		}
	}
	return false
}

func (s ShotSet) sort() {
	sort.SliceStable(s, func(i, j int) bool {
		ni, si := splitNumber(s[i])
		nj, sj := splitNumber(s[j])
		if ni != nj {
			return ni < nj
		}
		return si < sj
	})
}

func splitNumber(number string) (int, string) {
	end := 0
	for end < len(number) && number[end] >= '0' && number[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(number[:end])
	return n, number[end:]
}

// ParseShotList expands a comma-separated list of shot numbers and inclusive
// ranges, e.g. "1-4,7,12A". Ranges take bare numbers only.
func ParseShotList(list string) ([]string, error) {
	var out []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		from, to, isRange := strings.Cut(item, "-")
		if !isRange {
			out = append(out, item)
			continue
		}
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, faults.Wrap(faults.ErrValidation, "project", "parse shot list", "range start "+strconv.Quote(from)+" is not a number", nil)
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, faults.Wrap(faults.ErrValidation, "project", "parse shot list", "range end "+strconv.Quote(to)+" is not a number", nil)
		}
		if start < 0 || end < start {
			return nil, faults.Wrap(faults.ErrValidation, "project", "parse shot list", "range "+strconv.Quote(item)+" is empty", nil)
		}
		for n := start; n <= end; n++ {
			out = append(out, strconv.Itoa(n))
		}
	}
	return out, nil
}
