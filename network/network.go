// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package network

import (
	"context"
	"log/slog"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
)

// NATAddress is the address of the NAT.
const NATAddress = 255

// Packet is a network packet.
type Packet struct {
	Dst  int
	X, Y vm.Cell
}

type node struct {
	*vm.Instance
	out []vm.Cell // output values not yet dispatched
}

// Network is a set of nodes running the same program, exchanging packets.
type Network struct {
	nodes      []node
	nat        *Packet
	natY       vm.Cell
	natSent    bool
	firstNAT   bool
	idleRounds int
	vmOpts     []vm.Option
	log        *slog.Logger
}

// Option configures a Network.
type Option func(*Network)

// Logger sets the logger used to trace packets.
func Logger(l *slog.Logger) Option {
	return func(n *Network) { n.log = l }
}

// FirstNATPacket makes Run return the Y value of the first packet sent to the
// NAT instead of running the NAT.
func FirstNATPacket() Option {
	return func(n *Network) { n.firstNAT = true }
}

// IdleRounds sets the number of consecutive rounds without any packet sent
// and without pending input after which the network is considered idle. The
// default is 2.
func IdleRounds(rounds int) Option {
	return func(n *Network) {
		if rounds > 0 {
			n.idleRounds = rounds
		}
	}
}

// VMOptions sets options for the nodes' VM instances.
func VMOptions(opts ...vm.Option) Option {
	return func(n *Network) { n.vmOpts = append(n.vmOpts, opts...) }
}

// New creates a network of size nodes, each running a copy of prog. Each node
// is given its address as first input.
func New(prog vm.Image, size int, opts ...Option) (*Network, error) {
	if size <= 0 || size > NATAddress {
		return nil, errors.Errorf("invalid network size %d", size)
	}
	n := &Network{idleRounds: 2, log: slog.New(slogmulti.Fanout())}
	for _, opt := range opts {
		opt(n)
	}
	base, err := vm.New(prog, n.vmOpts...)
	if err != nil {
		return nil, err
	}
	n.nodes = make([]node, size)
	for k := range n.nodes {
		i := base.Clone()
		i.PushInput(vm.Cell(k))
		n.nodes[k] = node{Instance: i}
	}
	return n, nil
}

// Node returns the VM instance at address addr, or nil if there is no such
// node.
func (n *Network) Node(addr int) *vm.Instance {
	if addr < 0 || addr >= len(n.nodes) {
		return nil
	}
	return n.nodes[addr].Instance
}

// Send queues a packet for delivery to its destination node.
func (n *Network) Send(p Packet) error {
	if p.Dst < 0 || p.Dst >= len(n.nodes) {
		return errors.Wrapf(ErrAddress, "%d", p.Dst)
	}
	n.nodes[p.Dst].PushInput(p.X, p.Y)
	return nil
}

// Run runs the network until the NAT delivers the same Y value to node 0 twice
// in a row, and returns that value.
//
// With the FirstNATPacket option, Run returns as soon as a packet is sent to
// the NAT.
func (n *Network) Run(ctx context.Context) (vm.Cell, error) {
	idle := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		sent, waiting, alive := 0, 0, 0
		for addr := range n.nodes {
			nd := &n.nodes[addr]
			if nd.Halted() {
				continue
			}
			alive++
			if nd.WantsInput() && nd.InputLen() == 0 {
				waiting++
				nd.PushInput(-1)
			}
			if err := nd.Run(); err != nil {
				return 0, errors.Wrapf(err, "node %d", addr)
			}
			nd.out = append(nd.out, nd.DrainOutput()...)
			for ; len(nd.out) >= 3; nd.out = nd.out[3:] {
				p := Packet{Dst: int(nd.out[0]), X: nd.out[1], Y: nd.out[2]}
				sent++
				n.log.Debug("packet", "src", addr, "dst", p.Dst, "x", p.X, "y", p.Y)
				if p.Dst == NATAddress {
					if n.firstNAT {
						return p.Y, nil
					}
					n.nat = &p
					continue
				}
				if err := n.Send(p); err != nil {
					return 0, errors.Wrapf(err, "packet from node %d", addr)
				}
			}
		}
		if alive == 0 {
			return 0, ErrHalted
		}
		if sent > 0 || waiting < alive {
			idle = 0
			continue
		}
		if idle++; idle < n.idleRounds {
			continue
		}
		if n.nat == nil || n.firstNAT {
			return 0, ErrIdle
		}
		y := n.nat.Y
		n.log.Info("NAT wake up", "x", n.nat.X, "y", y)
		if n.natSent && y == n.natY {
			return y, nil
		}
		n.natY, n.natSent = y, true
		if err := n.Send(Packet{Dst: 0, X: n.nat.X, Y: y}); err != nil {
			return 0, err
		}
		idle = 0
	}
}
