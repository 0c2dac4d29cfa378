package web

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrNoFreePort is returned when every port in the scan range is taken.
var ErrNoFreePort = errors.New("no free port")

// DefaultPortScan covers 8000..8999 when listening on :8000.
const DefaultPortScan = 1000

// Listen binds addr. If the port is busy it tries the next one, up to scan
// ports in total. Port 0 lets the kernel choose and never scans.
func Listen(addr string, scan int) (net.Listener, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("listen address %q: bad port", addr)
	}
	if port == 0 || scan < 1 {
		scan = 1
	}

	var lastErr error
	for p := port; p < port+scan && p <= 65535; p++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w in %d..%d: %v", ErrNoFreePort, port, port+scan-1, lastErr)
}

// JoinURL is the address other devices should open. An unspecified listen
// host is replaced with the first LAN IPv4 address, or localhost.
func JoinURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String() + "/"
	}
	host := tcp.IP.String()
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		host = lanIP()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(tcp.Port)) + "/"
}

func lanIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil && v4.IsPrivate() {
			return v4.String()
		}
	}
	return "localhost"
}

// WriteQR draws url as a QR code with half-block characters, two modules
// per character row, so it fits a normal terminal.
func WriteQR(w io.Writer, url string) error {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encoding qr: %w", err)
	}
	bitmap := qr.Bitmap()

	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			// Light modules are inked; dark terminals supply the dark ones.
			switch {
			case !top && !bottom:
				b.WriteRune('█')
			case !top:
				b.WriteRune('▀')
			case !bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	_, err = io.WriteString(w, b.String())
	return err
}
