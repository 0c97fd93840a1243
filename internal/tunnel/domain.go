package tunnel

// MaxHostLen is the largest permitted length for a base host string. It is
// 251, not the DNS-wide 253, because the packet codec reserves two octets
// for the length-prefix byte of the encoded label chain it inserts ahead of
// the host (see Header/QNAME layout in packet.go).
const MaxHostLen = 251

// MaxLabelLen is the largest permitted length of a single dot-separated
// label, per DNS wire-format label-length limits.
const MaxLabelLen = 63

// ValidateHost checks host against the DNS lexical grammar this protocol
// requires of a base host: alphanumeric/hyphen/dot characters only, no
// leading/trailing hyphen and no hyphen next to a dot, no adjacent dots,
// each label at most MaxLabelLen characters, and a total length of at most
// MaxHostLen. A leading or trailing dot is not rejected. It returns ErrInvalidDomain on the first violation found,
// scanning left to right exactly like the reference lexer.
func ValidateHost(host string) error {
	if host == "" {
		return ErrInvalidDomain
	}
	if host[0] == '-' {
		return ErrInvalidDomain
	}

	labelLen := 0
	for i := 0; i < len(host); i++ {
		c := host[i]
		if c != '.' {
			labelLen++
			if labelLen > MaxLabelLen {
				return ErrInvalidDomain
			}
		}
		if !isAlnum(c) && c != '-' && c != '.' {
			return ErrInvalidDomain
		}
		if c == '.' {
			if i+1 < len(host) && host[i+1] == '.' {
				return ErrInvalidDomain
			}
			if i+1 < len(host) && host[i+1] == '-' {
				return ErrInvalidDomain
			}
			if i > 0 && host[i-1] == '-' {
				return ErrInvalidDomain
			}
			labelLen = 0
		}
	}
	if host[len(host)-1] == '-' {
		return ErrInvalidDomain
	}
	if len(host) > MaxHostLen {
		return ErrInvalidDomain
	}
	return nil
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
