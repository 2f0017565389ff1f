package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const defaultChunkSize = 64 << 10

// ClamAVScanner streams content to a clamd daemon with the INSTREAM command.
type ClamAVScanner struct {
	address   string // host:port, or a unix socket path starting with "/"
	timeout   time.Duration
	chunkSize int
}

var _ Scanner = (*ClamAVScanner)(nil)

type ClamAVOption func(*ClamAVScanner)

func WithTimeout(d time.Duration) ClamAVOption {
	return func(s *ClamAVScanner) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithChunkSize(n int) ClamAVOption {
	return func(s *ClamAVScanner) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

func NewClamAVScanner(address string, opts ...ClamAVOption) *ClamAVScanner {
	s := &ClamAVScanner{
		address:   address,
		timeout:   30 * time.Second,
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClamAVScanner) Name() string { return "clamav" }

func (s *ClamAVScanner) network() string {
	if strings.HasPrefix(s.address, "/") {
		return "unix"
	}
	return "tcp"
}

// Scan sends data in length-prefixed chunks without buffering the whole file.
func (s *ClamAVScanner) Scan(ctx context.Context, data io.Reader) (ScanResult, error) {
	result := ScanResult{Scanner: s.Name()}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, s.network(), s.address)
	if err != nil {
		return result, fmt.Errorf("clamav: connect: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return result, fmt.Errorf("clamav: send command: %w", err)
	}

	buf := make([]byte, s.chunkSize)
	size := make([]byte, 4)
	for {
		n, readErr := data.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(size, uint32(n))
			if _, err := conn.Write(size); err != nil {
				return result, fmt.Errorf("clamav: send chunk size: %w", err)
			}
			if _, err := conn.Write(buf[:n]); err != nil {
				return result, fmt.Errorf("clamav: send chunk: %w", err)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return result, fmt.Errorf("clamav: read content: %w", readErr)
		}
	}

	// zero-length chunk terminates the stream
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return result, fmt.Errorf("clamav: send terminator: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && !errors.Is(err, io.EOF) {
		return result, fmt.Errorf("clamav: read reply: %w", err)
	}
	return parseReply(result, reply)
}

// parseReply understands "stream: OK", "stream: <name> FOUND" and
// "<message> ERROR".
func parseReply(result ScanResult, reply string) (ScanResult, error) {
	reply = strings.TrimSpace(strings.TrimRight(reply, "\x00"))

	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(reply, ":"); ok {
			result.ThreatName = strings.TrimSpace(strings.TrimSuffix(threat, "FOUND"))
		}
		return result, nil
	case strings.HasSuffix(reply, "OK"):
		return result, nil
	case reply == "":
		return result, errors.New("clamav: empty reply")
	default:
		return result, fmt.Errorf("clamav: scan error: %s", reply)
	}
}
