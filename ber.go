package laureld

import (
	"bytes"
	"fmt"
	"io"

	goasn1ber "github.com/go-asn1-ber/asn1-ber"
)

// Type for errors returned by this library.
// Supports errors.Is() to test for specific errors while also displaying instance-specific error info.
type LDAPError struct {
	message  string
	infoKey  string
	infoData string
}

func (e *LDAPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.infoKey == "" {
		return e.message
	}
	return e.message + ": " + e.infoKey + " = " + e.infoData
}

// Returns true if both are LDAPError and have the same message
func (e *LDAPError) Is(other error) bool {
	le, ok := other.(*LDAPError)
	return ok && le.message == e.message
}

// Returns a new error object with the specified info
func (e *LDAPError) WithInfo(key string, value any) *LDAPError {
	sval := fmt.Sprintf("%v", value)
	return &LDAPError{e.message, key, sval}
}

// Predefined errors for this library
var ErrInvalidBoolean = &LDAPError{message: "invalid boolean data"}
var ErrInvalidLDAPMessage = &LDAPError{message: "invalid LDAP message"}
var ErrInvalidMessageID = &LDAPError{message: "invalid message ID"}
var ErrInvalidOID = &LDAPError{message: "invalid OID"}
var ErrIntegerTooLarge = &LDAPError{message: "integer too large"}
var ErrTLSAlreadySetUp = &LDAPError{message: "TLS already set up"}
var ErrTLSNotAvailable = &LDAPError{message: "TLS not available"}
var ErrWrongElementType = &LDAPError{message: "wrong element type"}
var ErrWrongSequenceLength = &LDAPError{message: "wrong sequence length"}

// maxInt INTEGER ::= 2147483647 -- (2^^31 - 1) --
const maxInt = 2147483647

// BER type code (first byte of any element)
type BerType uint8

// BER type classes
const (
	BerClassUniversal       = 0b00000000
	BerClassApplication     = 0b01000000
	BerClassContextSpecific = 0b10000000
	BerClassPrivate         = 0b11000000
)

// Construct a BER context-specific type code with the specified tag
func BerContextSpecificType(tag uint8, constructed bool) BerType {
	c := BerClassContextSpecific | BerType(tag)
	if constructed {
		return c | 0b00100000
	}
	return c
}

// Returns the type class (BerClassXXX)
func (t BerType) Class() uint8 {
	return uint8(t & 0b11000000)
}

// Returns true if the constructed bit is set
func (t BerType) IsConstructed() bool {
	return (t & 0b00100000) == 0b00100000
}

// Returns true if the constructed bit is not set
func (t BerType) IsPrimitive() bool {
	return (t & 0b00100000) == 0
}

// Returns the tag number of the type code
func (t BerType) TagNumber() uint8 {
	return uint8(t & 0b00011111)
}

// Basic BER types
const (
	BerTypeBoolean     BerType = 0b00000001
	BerTypeInteger     BerType = 0b00000010
	BerTypeOctetString BerType = 0b00000100
	BerTypeNull        BerType = 0b00000101
	BerTypeEnumerated  BerType = 0b00001010
	BerTypeSequence    BerType = 0b00110000
	BerTypeSet         BerType = 0b00110001
)

type BerRawElement struct {
	Type BerType
	Data []byte
}

// Read one byte from the io.Reader
func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	buf := make([]byte, 1)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, io.EOF
	}
	return buf[0], nil
}

// Read an element size from the given io.Reader
func BerReadSize(r io.Reader) (uint32, error) {
	b, err := readByte(r)
	if err != nil {
		return 0, err
	}
	// < 0x80 means the number as-is
	if b < 0x80 {
		return uint32(b), nil
	}
	// >= 0x80 means the first byte minus 0x80 is the number of bytes long the size is
	nbytes := b - 0x80
	if nbytes > 4 {
		// Don't support sizes that would overflow uint32
		return 0, ErrIntegerTooLarge.WithInfo("size length", nbytes)
	}
	// Read the integer from the next nbytes bytes
	var res uint32 = 0
	for i := 0; i < int(nbytes); i++ {
		b, err = readByte(r)
		if err != nil {
			return 0, err
		}
		res <<= 8
		res |= uint32(b)
	}
	return res, nil
}

// Read a raw element from the io.Reader
func BerReadElement(r io.Reader) (elmt BerRawElement, err error) {
	// First byte is type code
	tp, err := readByte(r)
	if err != nil {
		return
	}
	elmt.Type = BerType(tp)
	// Next byte(s) are data size
	length, err := BerReadSize(r)
	if err != nil {
		return
	}
	// Data is the next bytes with given length
	buf := make([]byte, length)
	_, err = io.ReadFull(r, buf)
	if err != nil {
		return
	}
	elmt.Data = buf
	return
}

// Return a bool from BER boolean element data
func BerGetBoolean(data []byte) (bool, error) {
	// Protect from a panic, but shouldn't happen
	if len(data) != 1 {
		return false, ErrInvalidBoolean.WithInfo("data length", len(data))
	}
	return data[0] != 0x00, nil
}

// Return an int64 from BER integer element data
func BerGetInteger(data []byte) (int64, error) {
	// Don't support integers that would overflow an int64
	if len(data) > 8 {
		return 0, ErrIntegerTooLarge.WithInfo("length", len(data))
	}
	n, err := goasn1ber.ParseInt64(data)
	if err != nil {
		return 0, ErrInvalidLDAPMessage.WithInfo("integer data", err.Error())
	}
	return n, nil
}

// Return an enumerated value from BER enumerated element data (alias for BerGetInteger)
var BerGetEnumerated = BerGetInteger

// Return a string from BER octet string element data
func BerGetOctetString(data []byte) string {
	return string(data)
}

// Return an array of raw elements from BER sequence element data
func BerGetSequence(data []byte) ([]BerRawElement, error) {
	elmts := make([]BerRawElement, 0, 1)
	reader := bytes.NewReader(data)
	for reader.Len() > 0 {
		elmt, err := BerReadElement(reader)
		if err != nil {
			return nil, err
		}
		elmts = append(elmts, elmt)
	}
	return elmts, nil
}

// Return an array of raw elements from BER sequence element data (alias for BerGetSequence)
var BerGetSet = BerGetSequence

// Return a BER-encoded boolean
func BerEncodeBoolean(b bool) []byte {
	if b {
		return []byte{byte(BerTypeBoolean), 1, 0xff}
	} else {
		return []byte{byte(BerTypeBoolean), 1, 0x00}
	}
}

// Return a BER-encoded integer
func BerEncodeInteger(i int64) []byte {
	return goasn1ber.NewInteger(goasn1ber.ClassUniversal, goasn1ber.TypePrimitive, goasn1ber.TagInteger, i, "").Bytes()
}

// Return a BER-encoded enumerated value
func BerEncodeEnumerated(i int64) []byte {
	return goasn1ber.NewInteger(goasn1ber.ClassUniversal, goasn1ber.TypePrimitive, goasn1ber.TagEnumerated, i, "").Bytes()
}

// Return a BER-encoded element with the specified type code and data
func BerEncodeElement(etype BerType, data []byte) []byte {
	res := make([]byte, 1, len(data)+6)
	res[0] = byte(etype)
	size := len(data)
	if size < 0x80 {
		res = append(res, byte(size))
	} else if size <= 0xffff {
		res = append(res, 0x82, byte((size&0xff00)>>8), byte(size&0xff))
	} else if size <= 0xffffff {
		res = append(res, 0x83, byte((size&0xff0000)>>16), byte((size&0xff00)>>8), byte(size&0xff))
	} else if size <= 0xffffffff {
		res = append(res, 0x84, byte((size&0xff000000)>>24), byte((size&0xff0000)>>16), byte((size&0xff00)>>8), byte(size&0xff))
	} else {
		panic("size too large")
	}
	res = append(res, data...)
	return res
}

// Return a BER-encoded octet string
func BerEncodeOctetString(s string) []byte {
	return BerEncodeElement(BerTypeOctetString, []byte(s))
}

// Return a BER-encoded sequence with the provided data
func BerEncodeSequence(data []byte) []byte {
	return BerEncodeElement(BerTypeSequence, data)
}

// Return a BER-encoded set with the provided data
func BerEncodeSet(data []byte) []byte {
	return BerEncodeElement(BerTypeSet, data)
}
