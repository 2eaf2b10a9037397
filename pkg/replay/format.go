// Package replay implements the two file-owning replay actors: a record
// actor that serializes received packets to a temporary file and a
// playback actor that reads them back on a wall-clock-locked schedule.
package replay

import "time"

// Version is stamped into every replay file's header and used to derive
// the saved filename.
const Version = "underkeep-1"

// Record is one parsed replay entry: a packet received at offset Delta
// after the recording's t0, tagged with the profile (player) it came from.
type Record struct {
	Delta   time.Duration
	Profile [16]byte
	Packet  []byte
}

// bodyLen returns the on-disk length of this record's body, i.e. everything
// after the leading u32 body-length field itself.
func (r Record) bodyLen() uint32 {
	// secs(8) + nanos(4) + profile(16) + pkt_len(4) + payload
	return 8 + 4 + 16 + 4 + uint32(len(r.Packet))
}
