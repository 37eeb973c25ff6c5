package rle

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultRule is used when a document never declares a rule.
	DefaultRule = "B3/S23"

	// DefaultHardCellLimit caps the number of live cells a single pattern may
	// decode to.
	DefaultHardCellLimit = 250_000
)

var (
	headerRegex = regexp.MustCompile(`(?i)x\s*=\s*(\d+)\s*,\s*y\s*=\s*(\d+)(?:\s*,\s*rule\s*=\s*(\S+))?`)
	periodRegex = regexp.MustCompile(`(?i)\bperiod\s*(\d+)\b`)
	speedRegex  = regexp.MustCompile(`(?i)\bc\s*/\s*(\d+)\b`)
)

// Cell is a single live cell. Coordinates grow right (X) and down (Y).
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pattern is the decoded form of one RLE document.
type Pattern struct {
	Width  int
	Height int
	Rule   string
	Period *int
	Speed  *string
	Cells  []Cell
}

// Decoder decodes RLE documents under a fixed hard cell limit.
type Decoder struct {
	limit int
}

// NewDecoder returns a Decoder. A limit <= 0 selects DefaultHardCellLimit.
func NewDecoder(limit int) *Decoder {
	if limit <= 0 {
		limit = DefaultHardCellLimit
	}
	return &Decoder{limit: limit}
}

// Limit returns the hard cell limit the decoder enforces.
func (d *Decoder) Limit() int {
	return d.limit
}

// Decode is a shorthand for NewDecoder(limit).Decode(id, text).
func Decode(id, text string, limit int) (*Pattern, error) {
	return NewDecoder(limit).Decode(id, text)
}

// Decode parses text into a Pattern. id only names the document in errors.
// The only error returned is a *FormatTooLargeError.
func (d *Decoder) Decode(id, text string) (*Pattern, error) {
	var (
		headerW, headerH int
		rule             = DefaultRule
		period           *int
		speed            *string
		body             strings.Builder
	)

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if m := periodRegex.FindStringSubmatch(line); m != nil {
				p := parseInt(m[1])
				period = &p
			}
			if m := speedRegex.FindStringSubmatch(line); m != nil {
				s := "c/" + m[1]
				speed = &s
			}
			continue
		}

		if m := headerRegex.FindStringSubmatch(line); m != nil {
			headerW = parseInt(m[1])
			headerH = parseInt(m[2])
			if m[3] != "" {
				rule = m[3]
			}
			continue
		}

		body.WriteString(line)
	}

	st := &state{id: id, limit: d.limit}
	if err := st.run(body.String()); err != nil {
		return nil, err
	}

	return &Pattern{
		Width:  max(headerW, st.maxX),
		Height: max(headerH, st.maxY),
		Rule:   strings.ToUpper(rule),
		Period: period,
		Speed:  speed,
		Cells:  st.cells,
	}, nil
}

// state is the cursor machine that walks the concatenated body.
type state struct {
	id    string
	limit int

	x, y       int
	maxX, maxY int
	cells      []Cell
}

func (s *state) run(encoded string) error {
	run := 0
	pending := false

	for _, ch := range encoded {
		if ch >= '0' && ch <= '9' {
			run = accumulate(run, int(ch-'0'))
			pending = true
			continue
		}

		count := 1
		if pending {
			count = run
		}
		run, pending = 0, false

		switch ch {
		case 'b':
			s.x = satAdd(s.x, count)
		case 'o':
			for n := 0; n < count; n++ {
				s.cells = append(s.cells, Cell{X: satAdd(s.x, n), Y: s.y})
				if len(s.cells) > s.limit {
					reached := len(s.cells)
					s.cells = nil
					return &FormatTooLargeError{ID: s.id, Count: reached, Limit: s.limit}
				}
			}
			s.x = satAdd(s.x, count)
			s.maxX = max(s.maxX, s.x)
			s.maxY = max(s.maxY, satAdd(s.y, 1))
		case '$':
			s.y = satAdd(s.y, count)
			s.x = 0
			s.maxY = max(s.maxY, satAdd(s.y, 1))
		case '!':
			return nil
		}
	}
	return nil
}

// splitLines breaks text on \r\n, \r and \n.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// parseInt parses a run of ASCII digits, saturating at math.MaxInt.
func parseInt(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}

func accumulate(run, digit int) int {
	if run > (math.MaxInt-digit)/10 {
		return math.MaxInt
	}
	return run*10 + digit
}

func satAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
