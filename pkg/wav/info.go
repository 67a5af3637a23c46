package wav

import "encoding/binary"

// Info holds the RIFF INFO metadata fields written after the audio payload.
// Empty fields are omitted from the chunk.
type Info struct {
	// Artist is stored as IART.
	Artist string

	// Album is stored as IPRD (the INFO "product" field).
	Album string

	// Title is stored as INAM.
	Title string
}

// chunk serialises the info as a LIST/INFO chunk. Each entry is a NUL
// terminated string padded to even length, per the RIFF word-alignment rule.
func (i *Info) chunk() []byte {
	var entries []byte
	for _, e := range []struct {
		id    string
		value string
	}{
		{"IART", i.Artist},
		{"IPRD", i.Album},
		{"INAM", i.Title},
	} {
		if e.value == "" {
			continue
		}
		data := append([]byte(e.value), 0)
		entries = append(entries, e.id...)
		entries = binary.LittleEndian.AppendUint32(entries, uint32(len(data)))
		entries = append(entries, data...)
		if len(data)%2 == 1 {
			entries = append(entries, 0)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	chunk := make([]byte, 0, 12+len(entries))
	chunk = append(chunk, "LIST"...)
	chunk = binary.LittleEndian.AppendUint32(chunk, uint32(4+len(entries)))
	chunk = append(chunk, "INFO"...)
	chunk = append(chunk, entries...)
	return chunk
}
