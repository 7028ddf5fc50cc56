package display

import (
	"fmt"

	"github.com/BeatGlow/hauntedmirror/conn"
)

// DefaultPoolSize is the number of stripe writes that may be in flight.
const DefaultPoolSize = 6

// maxPoolSize is bounded by the 7 bits a slot index has in TransactionID.Uint32.
const maxPoolSize = 0x80

// TransactionID names one queued stripe write. It stays valid until its pool
// slot is claimed for a newer write. Frame has 8 bits, so an ID held for a
// multiple of 256 frames matches the slot's current occupant again when the
// frame layout repeats; await IDs within a few frames of issuing them.
type TransactionID struct {
	// Slot is the pool slot index, at most 0x7f.
	Slot uint8

	// Frame is the frame generation, it wraps after 255 frames.
	Frame uint8

	// Row is the first row of the stripe within its frame.
	Row uint16
}

// Uint32 packs the ID as slot<<24 | frame<<16 | row for logging.
func (id TransactionID) Uint32() uint32 {
	return uint32(id.Slot&0x7f)<<24 | uint32(id.Frame)<<16 | uint32(id.Row)
}

func (id TransactionID) String() string {
	return fmt.Sprintf("%08x", id.Uint32())
}

type slotState uint8

const (
	idle slotState = iota
	busy
)

type slot struct {
	state    slotState
	frame    uint8
	row      uint16
	transfer conn.Transfer
}

// pool is a ring of reusable transaction slots, claimed round-robin. The bus
// completes transfers in submission order, so the oldest busy slot is always
// the one the rotor points at.
type pool struct {
	bus   conn.Bus
	slots []slot
	rotor int
}

func newPool(bus conn.Bus, size int) *pool {
	return &pool{
		bus:   bus,
		slots: make([]slot, size),
	}
}

func (p *pool) id(s *slot) TransactionID {
	for i := range p.slots {
		if &p.slots[i] == s {
			return TransactionID{Slot: uint8(i), Frame: s.frame, Row: s.row}
		}
	}
	panic("display: slot does not belong to the pool")
}

// drain waits for the next completion, which must be the transfer of s.
func (p *pool) drain(s *slot) error {
	t, err := p.bus.Await()
	if t == nil {
		return err
	}
	if t != &s.transfer {
		panic(fmt.Sprintf("display: bus completed a transfer out of order, expected transaction %s", p.id(s)))
	}
	s.state = idle
	return err
}

// getIdle claims the next slot, waiting for its previous write if it is still busy.
func (p *pool) getIdle() (*slot, error) {
	s := &p.slots[p.rotor]
	if s.state == busy {
		if err := p.drain(s); err != nil {
			return nil, err
		}
	}
	p.rotor = (p.rotor + 1) % len(p.slots)
	return s, nil
}

// awaitAll waits until every slot is idle.
func (p *pool) awaitAll() error {
	for i := range p.slots {
		s := &p.slots[(p.rotor+i)%len(p.slots)]
		if s.state == busy {
			if err := p.drain(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// find returns the busy slot still holding the write named by id, or nil if
// that write has completed or the slot was recycled.
func (p *pool) find(id TransactionID) *slot {
	if int(id.Slot) >= len(p.slots) {
		return nil
	}
	s := &p.slots[id.Slot]
	if s.state != busy || s.frame != id.Frame || s.row != id.Row {
		return nil
	}
	return s
}

// await waits until the write named by id has completed, draining every
// older write first.
func (p *pool) await(id TransactionID) error {
	target := p.find(id)
	if target == nil {
		return nil
	}
	for i := 0; target.state == busy && i < len(p.slots); i++ {
		s := &p.slots[(p.rotor+i)%len(p.slots)]
		if s.state == busy {
			if err := p.drain(s); err != nil {
				return err
			}
		}
	}
	return nil
}
