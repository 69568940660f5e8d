package capio

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatPcapNG, FormatFromPath("out.pcapng"))
	assert.Equal(t, FormatPcapNG, FormatFromPath("/a/b/OUT.PCAPNG"))
	assert.Equal(t, FormatPcap, FormatFromPath("out.pcap"))
	assert.Equal(t, FormatPcap, FormatFromPath("out"))
}

func TestSinkSourceRoundTripPcap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.pcap")

	sink, err := Create(path, FormatPcap, layers.LinkTypeEthernet, 0)
	require.NoError(t, err)

	payloads := [][]byte{
		[]byte("first frame"),
		[]byte("second frame, a bit longer"),
	}
	for i, p := range payloads {
		rec := pcaprec.Record{
			HasTimestamp: true,
			TS:           pcaprec.TimeSpec{Secs: uint64(1000 + i)},
			Caplen:       uint32(len(p)),
			Len:          uint32(len(p)),
			Payload:      p,
		}
		require.NoError(t, sink.WriteRecord(rec))
	}
	require.NoError(t, sink.Close())

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, layers.LinkTypeEthernet, src.LinkType())

	var got [][]byte
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec.Payload)
	}
	require.Len(t, got, 2)
	assert.Equal(t, payloads[0], got[0])
	assert.Equal(t, payloads[1], got[1])
}

func TestSinkSourceRoundTripPcapNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.pcapng")

	sink, err := Create(path, FormatPcapNG, layers.LinkTypeEthernet, 0)
	require.NoError(t, err)

	rec := pcaprec.Record{
		HasTimestamp: true,
		TS:           pcaprec.TimeSpec{Secs: 42, Nsecs: 500},
		Caplen:       5,
		Len:          5,
		Payload:      []byte("hello"),
	}
	require.NoError(t, sink.WriteRecord(rec))
	require.NoError(t, sink.Close())

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	got, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got.Payload)
	assert.Equal(t, uint64(42), got.TS.Secs)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}
