package api

import (
	"bufio"
	"io"
	"strings"
)

// sseEvent is one server-sent event: the optional "event:" type and
// the payload assembled from its "data:" lines.
type sseEvent struct {
	Type string
	Data string
}

// sseScanner reads server-sent events off a response body. Events are
// blocks of "field: value" lines separated by blank lines; comment
// lines (":") and fields we don't use are skipped.
type sseScanner struct {
	reader *bufio.Reader
	event  sseEvent
	err    error
}

func newSSEScanner(r io.Reader) *sseScanner {
	return &sseScanner{reader: bufio.NewReaderSize(r, 32*1024)}
}

// Next advances to the next event, returning false at end of stream or
// on a read error. Check Err afterwards to tell the two apart.
func (s *sseScanner) Next() bool {
	s.event = sseEvent{}
	var data []string
	eventType := ""

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF && len(data) > 0 {
				// Emit the trailing event, then stop on the next call.
				s.event = sseEvent{Type: eventType, Data: strings.Join(data, "\n")}
				s.err = io.EOF
				return true
			}
			s.err = err
			return false
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(data) > 0 {
				s.event = sseEvent{Type: eventType, Data: strings.Join(data, "\n")}
				return true
			}
			eventType = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if ok {
			value = strings.TrimPrefix(value, " ")
		}
		switch field {
		case "data":
			data = append(data, value)
		case "event":
			eventType = value
		}
	}
}

// Event returns the event parsed by the last successful Next.
func (s *sseScanner) Event() sseEvent { return s.event }

// Err returns the terminal error, with clean EOF reported as nil.
func (s *sseScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
