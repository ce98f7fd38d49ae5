// srs/client.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package srs

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	dlog "github.com/dcs-atis/atisd/log"
)

// ProtocolVersion is the advertised version literal, unchanged across
// sessions.
const ProtocolVersion = "1.7.0.0"

const (
	heartbeatInterval = 5 * time.Second
	outboundQueueCap  = 32
)

// Client owns the TCP control connection and UDP voice socket for one
// station's broadcast session. It is created fresh per supervisor
// session and discarded on shutdown; the supervisor exclusively owns it.
type Client struct {
	identity *ClientIdentity
	wantsRX  bool // whether inbound voice is requested, advertised via RadioUpdate/ping

	tcp *net.TCPConn
	udp *net.UDPConn

	outbound chan []byte
	inbound  chan *VoicePacket

	packetId atomic.Uint64

	lg *dlog.Logger
}

// Dial opens both transports and sends the initial Sync message, then
// returns a live Client the caller can immediately use with Send and
// Identity. Serve must be run (typically in its own goroutine) to drive
// the session's sub-tasks; Send enqueues onto a channel Serve's
// udpForwardLoop drains, so calling Send before Serve starts just fills
// the capacity-32 buffer rather than blocking forever.
func Dial(ctx context.Context, addr string, identity *ClientIdentity, wantsRX bool, lg *dlog.Logger) (*Client, error) {
	c := &Client{
		identity: identity,
		wantsRX:  wantsRX,
		outbound: make(chan []byte, outboundQueueCap),
		inbound:  make(chan *VoicePacket, outboundQueueCap),
		lg:       lg,
	}

	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve tcp addr %s: %w", addr, err)
	}
	tcp, err := net.DialTCP("tcp", nil, tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	c.tcp = tcp

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		tcp.Close()
		return nil, fmt.Errorf("resolve udp addr %s: %w", addr, err)
	}
	udp, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		tcp.Close()
		return nil, fmt.Errorf("dial udp %s: %w", addr, err)
	}
	c.udp = udp

	if err := c.sendSync(); err != nil {
		tcp.Close()
		udp.Close()
		return nil, fmt.Errorf("send sync: %w", err)
	}

	return c, nil
}

// Connect dials, sends Sync, and runs the session's sub-tasks to
// completion in one blocking call; it is the single-call convenience
// form of Dial+Serve for callers that don't need a live handle mid-
// session.
func Connect(ctx context.Context, addr string, identity *ClientIdentity, wantsRX bool, lg *dlog.Logger) error {
	c, err := Dial(ctx, addr, identity, wantsRX, lg)
	if err != nil {
		return err
	}
	return c.Serve(ctx)
}

// Identity returns the client's shared identity, whose position callers
// update as reports regenerate; the next heartbeat or Sync reflects it.
func (c *Client) Identity() *ClientIdentity {
	return c.identity
}

// Serve starts the four concurrent sub-tasks described in §4.C/§5 and
// blocks until the session tears down (any sub-task ending cancels the
// others), closing both transports on the way out. Callers should treat
// a non-nil return as session-fatal and apply the supervisor's
// reconnect policy.
func (c *Client) Serve(ctx context.Context) error {
	defer c.tcp.Close()
	defer c.udp.Close()

	parentCtx := ctx
	eg, ctx := errgroup.WithContext(ctx)
	// tcpRecvLoop blocks in a synchronous Read with no deadline; closing
	// both sockets as soon as the group's context ends is what actually
	// unblocks it (and the others) promptly on cancellation or a sibling
	// sub-task's error, matching §4.C's Terminating state.
	eg.Go(func() error {
		<-ctx.Done()
		c.tcp.Close()
		c.udp.Close()
		return nil
	})
	eg.Go(func() error { return c.tcpRecvLoop(ctx) })
	eg.Go(func() error { return c.tcpHeartbeatLoop(ctx) })
	eg.Go(func() error { return c.udpPingLoop(ctx) })
	eg.Go(func() error { return c.udpForwardLoop(ctx) })
	// The UDP inbound reader isn't one of §4.C's four named activities
	// (those cover outbound pacing and control-channel presence); it
	// exists so InboundStream has something to deliver from, mirroring
	// the original implementation's separately-polled inbound stream
	// object rather than a fifth scheduled task with its own cadence.
	eg.Go(func() error { return c.udpRecvLoop(ctx) })

	err := eg.Wait()
	if parentCtx.Err() != nil {
		// Cancellation came from outside (supervisor shutdown), not from
		// a sub-task failure: a clean exit, no error propagation.
		return nil
	}
	return err
}

func (c *Client) sendSync() error {
	radio := c.radioInfo()
	client := NewClient(c.identity.Sguid, c.identity.Name, c.identity.Position(), CoalitionBlue, &radio)
	msg := Message{MsgType: MsgSync, Version: ProtocolVersion, Client: &client}

	enc, err := Encode(msg)
	if err != nil {
		return err
	}
	_, err = c.tcp.Write(enc)
	return err
}

// radioInfo synthesizes the one-entry RadioInfo describing the broadcast
// radio, with the exact required field values from §4.C.
func (c *Client) radioInfo() RadioInfo {
	radio := Radio{
		Enc:        false,
		EncMode:    0,
		FreqMax:    1.0,
		FreqMin:    1.0,
		Freq:       float64(c.identity.FrequencyHz),
		Modulation: int(ModulationAM),
		Name:       c.identity.Name,
		Volume:     1.0,
		Channel:    -1,
		FreqMode:   0,
		VolMode:    0,
		Expansion:  false,
		Simul:      false,
	}

	var unitId uint32
	var unitName string
	if u := c.identity.Unit(); u != nil {
		unitId, unitName = u.ID, u.Name
	}

	return NewRadioInfo(c.identity.Name, c.identity.Position(), false, []Radio{radio},
		0, 0, unitName, unitId, true)
}

func (c *Client) tcpRecvLoop(ctx context.Context) error {
	r := bufio.NewReader(c.tcp)
	for {
		if ctx.Err() != nil {
			return context.Canceled
		}

		line, err := r.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("tcp recv: %w", err) // EOF is session-fatal
		}

		if len(line) > 0 && line[len(line)-1] == '\n' {
			line = line[:len(line)-1]
		}
		if len(line) == 0 {
			continue
		}

		if _, err := Decode(line); err != nil {
			c.lg.Warnf("discarding malformed control message: %v", err)
			continue
		}
		// Inbound control messages are accepted but not interpreted
		// beyond framing/schema validation (§4.C).
	}
}

func (c *Client) tcpHeartbeatLoop(ctx context.Context) error {
	t := time.NewTicker(heartbeatInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case <-t.C:
			var msg Message
			if c.wantsRX {
				radio := c.radioInfo()
				client := NewClient(c.identity.Sguid, c.identity.Name, c.identity.Position(), CoalitionBlue, &radio)
				msg = Message{MsgType: MsgRadioUpdate, Version: ProtocolVersion, Client: &client}
			} else {
				client := NewClient(c.identity.Sguid, c.identity.Name, c.identity.Position(), CoalitionBlue, nil)
				msg = Message{MsgType: MsgUpdate, Version: ProtocolVersion, Client: &client}
			}

			enc, err := Encode(msg)
			if err != nil {
				return fmt.Errorf("encode heartbeat: %w", err)
			}
			if _, err := c.tcp.Write(enc); err != nil {
				return fmt.Errorf("tcp heartbeat: %w", err)
			}
		}
	}
}

func (c *Client) udpPingLoop(ctx context.Context) error {
	if !c.wantsRX {
		<-ctx.Done()
		return context.Canceled
	}

	t := time.NewTicker(heartbeatInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case <-t.C:
			dgram, err := EncodePing(c.identity.Sguid)
			if err != nil {
				return fmt.Errorf("encode ping: %w", err)
			}
			if _, err := c.udp.Write(dgram); err != nil {
				return fmt.Errorf("udp ping: %w", err)
			}
		}
	}
}

func (c *Client) udpRecvLoop(ctx context.Context) error {
	buf := make([]byte, 65536)
	for {
		if ctx.Err() != nil {
			return context.Canceled
		}

		c.udp.SetReadDeadline(time.Now().Add(heartbeatInterval))
		n, err := c.udp.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return fmt.Errorf("udp recv: %w", err)
		}

		_, pkt, err := DecodeDatagram(buf[:n])
		if err != nil {
			c.lg.Warnf("discarding malformed voice packet: %v", err)
			continue
		}
		if pkt == nil {
			continue // ping: swallowed, not delivered to consumers
		}

		select {
		case c.inbound <- pkt:
		case <-ctx.Done():
			return context.Canceled
		}
	}
}

func (c *Client) udpForwardLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case dgram := <-c.outbound:
			if _, err := c.udp.Write(dgram); err != nil {
				return fmt.Errorf("udp forward: %w", err)
			}
		}
	}
}

// Send wraps frame into a VoicePacket using the client's current
// frequency and sguid, increments the packet id (wrapping u64 add), and
// enqueues it; callers block (cooperatively) when the outbound queue is
// full, per the capacity-32 backpressure model.
func (c *Client) Send(ctx context.Context, frame []byte) error {
	id := c.packetId.Add(1)

	pkt := VoicePacket{
		Audio: frame,
		Frequencies: []Frequency{
			{Freq: float64(c.identity.FrequencyHz), Modulation: ModulationAM, Encryption: EncryptionNone},
		},
		PacketId:          id,
		TransmissionSguid: c.identity.Sguid,
		ClientSguid:       c.identity.Sguid,
	}
	if u := c.identity.Unit(); u != nil {
		pkt.UnitId = u.ID
	}

	dgram, err := EncodeVoicePacket(pkt)
	if err != nil {
		return err
	}

	select {
	case c.outbound <- dgram:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InboundStream returns the channel of VoicePackets received on the UDP
// socket, in arrival order; pings are swallowed before reaching it.
func (c *Client) InboundStream() <-chan *VoicePacket {
	return c.inbound
}
