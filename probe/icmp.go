package probe

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/digineo/go-ping"
	log "github.com/sirupsen/logrus"
)

// ICMP probes a target with ICMP echo requests.
type ICMP struct {
	pinger  *ping.Pinger
	payload []byte
	mu      sync.Mutex
}

// NewICMP opens the raw ICMP sockets. An empty bind address disables the
// address family. You'll need to call Close() to cleanup.
func NewICMP(bind4, bind6 string) (*ICMP, error) {
	pinger, err := ping.New(bind4, bind6)
	if err != nil {
		return nil, fmt.Errorf("cannot open ICMP socket: %w", err)
	}

	return &ICMP{pinger: pinger}, nil
}

// DetectBindAddresses returns the wildcard bind addresses of all address
// families usable on this host.
func DetectBindAddresses() (bind4, bind6 string) {
	if ln, err := net.Listen("tcp4", "127.0.0.1:0"); err == nil {
		// ipv4 enabled
		ln.Close()
		bind4 = "0.0.0.0"
	}
	if ln, err := net.Listen("tcp6", "[::1]:0"); err == nil {
		// ipv6 enabled
		ln.Close()
		bind6 = "::"
	}

	return bind4, bind6
}

// Probe sends one echo request and waits at most timeout for the reply.
func (p *ICMP) Probe(ctx context.Context, target *net.IPAddr, timeout time.Duration, payload []byte) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p.setPayload(payload)

	rtt, err := p.pinger.PingContext(ctx, target)
	if err != nil {
		return 0, Classify(err)
	}

	log.Debugf("reply from %s in %s", target, rtt)
	return float64(rtt) / float64(time.Millisecond), nil
}

func (p *ICMP) setPayload(payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.payload != nil && bytes.Equal(p.payload, payload) {
		return
	}
	p.payload = append([]byte{}, payload...)
	p.pinger.SetPayload(p.payload)
}

// Close releases the ICMP sockets.
func (p *ICMP) Close() {
	p.pinger.Close()
}
