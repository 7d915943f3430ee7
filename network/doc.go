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

// Package network runs several Intcode VM instances that talk to each other.
//
// Instances are never run concurrently with each other: a driver steps them in
// turn and moves values between their output and input queues. Two drivers are
// provided.
//
// Chain connects amplifiers in series: the output of each amplifier is fed to
// the input of the next one. Each amplifier is first given its phase setting.
// In feedback mode, the output of the last amplifier is fed back to the first
// one until the last amplifier halts.
//
// Network connects addressable nodes exchanging packets of three values:
// destination address, X and Y. Every node receives its own address as its
// first input and reads -1 when it has no pending packet. Packets sent to
// address 255 go to the NAT, which keeps only the last one and delivers it to
// node 0 once the network is idle.
package network
