package tunnel

import (
	"encoding/binary"
	"strings"
)

// dnsTail is the length, in bytes, of the fixed QTYPE/QCLASS tail that
// follows every QNAME.
const dnsTail = 4

// dnsMaxName is the maximum total octet length of a DNS name in its
// textual (dotted) form, before DNS wire encoding.
const dnsMaxName = 253

// dotsReserved is the number of dot separators the packet codec reserves
// when computing MaxChunkLen: one join dot before the base host, plus
// slack for the label-chunking dots the encoded data itself introduces.
const dotsReserved = 4

// MaxChunkLen returns the largest number of raw data bytes that can be
// carried in a single packet's QNAME alongside a base host of length
// hostLen, per L_chunk_max = floor((253 - |H| - 4) / 2).
func MaxChunkLen(hostLen int) int {
	n := (dnsMaxName - hostLen - dotsReserved) / 2
	if n < 0 {
		return 0
	}
	return n
}

// BuildPacket assembles one length-prefixed DNS query packet whose QNAME
// encodes data as base-16 text dotted by label, followed by host. id is
// used as the DNS header's transaction ID (conventionally the sender's
// process identifier). It returns the full wire bytes (including the
// 2-byte TCP length prefix) and the dotted QNAME text, for callers that
// need to report it to an event hook.
func BuildPacket(id uint16, data []byte, host string) (packet []byte, qnameText string, err error) {
	if len(data) > MaxChunkLen(len(host)) {
		return nil, "", ErrChunkTooLarge
	}

	encoded := Base16Encode(data)
	dotted := joinDotted(insertDots(string(encoded), MaxLabelLen), host)

	name := encodeDNSName(dotted)
	if len(name) > 255 {
		return nil, "", ErrChunkTooLarge
	}

	header := Header{ID: id}.Marshal()
	tail := make([]byte, dnsTail)
	binary.BigEndian.PutUint16(tail[0:2], 1) // QTYPE = A
	binary.BigEndian.PutUint16(tail[2:4], 1) // QCLASS = IN

	body := make([]byte, 0, len(header)+len(name)+len(tail))
	body = append(body, header...)
	body = append(body, name...)
	body = append(body, tail...)

	packet = make([]byte, tcpLenPrefixSize+len(body))
	binary.BigEndian.PutUint16(packet[0:2], uint16(len(body)))
	copy(packet[2:], body)

	return packet, dotted, nil
}

// ParsePacket decodes the QNAME of a framed DNS packet (the length prefix
// already stripped by the framer) back into the raw data chunk it carries.
// hostLen is the length of the base host the caller is expecting, used to
// locate the boundary between the data-label portion and the host suffix.
// It also returns the full dotted QNAME text, reconstructed out-of-place
// (never mutating msg), for callers reporting to an event hook.
func ParsePacket(msg []byte, hostLen int) (qnameText string, data []byte, err error) {
	if len(msg) < HeaderSize+dnsTail {
		return "", nil, ErrTruncatedPacket
	}
	if _, err = ParseHeader(msg); err != nil {
		return "", nil, err
	}

	qname := msg[HeaderSize : len(msg)-dnsTail]

	// The "-2" peels off the host label's own length-prefix byte and the
	// terminating zero byte that ends the QNAME — both follow the data
	// labels in the wire layout and are not part of the data payload.
	payloadLen := len(msg) - HeaderSize - dnsTail - hostLen - nameSuffixOverhead
	if payloadLen < 0 || payloadLen > len(qname) {
		return "", nil, ErrTruncatedPacket
	}

	qnameText = decodeLabelChain(qname)
	encoded := decodeDataLabels(qname[:payloadLen])
	data = Base16Decode(encoded)
	return qnameText, data, nil
}

// tcpLenPrefixSize is the width, in bytes, of the big-endian length prefix
// written ahead of every DNS-over-TCP message.
const tcpLenPrefixSize = 2

// nameSuffixOverhead is the combined width, in bytes, of the base host's
// own label length-prefix byte and the QNAME's terminating zero byte.
const nameSuffixOverhead = 2

// insertDots inserts a '.' after every width characters of s, with no
// trailing dot — including when len(s) is an exact multiple of width.
func insertDots(s string, width int) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(s); i += width {
		if i > 0 {
			sb.WriteByte('.')
		}
		end := i + width
		if end > len(s) {
			end = len(s)
		}
		sb.WriteString(s[i:end])
	}
	return sb.String()
}

// joinDotted joins a (possibly empty) chunked-data prefix with the base
// host using a single separating dot. An empty prefix yields just host,
// matching the empty-chunk edge case in §4.3.
func joinDotted(prefix, host string) string {
	if prefix == "" {
		return host
	}
	return prefix + "." + host
}

// encodeDNSName converts a dotted textual name into DNS wire format: each
// label prefixed by its length byte, terminated by a zero byte.
func encodeDNSName(s string) []byte {
	if s == "" {
		return []byte{0}
	}
	labels := strings.Split(s, ".")
	buf := make([]byte, 0, len(s)+len(labels)+1)
	for _, label := range labels {
		buf = append(buf, byte(len(label)))
		buf = append(buf, label...)
	}
	return append(buf, 0)
}

// decodeDataLabels reconstructs the contiguous base-16 text carried by a
// run of length-prefixed labels, by sliding each label down over its
// preceding length byte. It writes into a freshly allocated buffer rather
// than mutating buf in place, preserving the source bytes for callers that
// also need decodeLabelChain's dotted reconstruction (§9's design note).
func decodeDataLabels(buf []byte) []byte {
	out := make([]byte, 0, len(buf))
	for i := 0; i < len(buf); {
		n := int(buf[i])
		if n == 0 || i+1+n > len(buf) {
			break
		}
		out = append(out, buf[i+1:i+1+n]...)
		i += n + 1
	}
	return out
}

// decodeLabelChain reconstructs the dotted textual form of a DNS wire-
// format name (length-prefixed labels terminated by a zero byte, the
// terminator itself included or not in buf).
func decodeLabelChain(buf []byte) string {
	var sb strings.Builder
	for i := 0; i < len(buf); {
		n := int(buf[i])
		if n == 0 || i+1+n > len(buf) {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.Write(buf[i+1 : i+1+n])
		i += n + 1
	}
	return sb.String()
}
