// Package keychain defines the contracts of the Celerix secure store: the
// platform item store capability, the error taxonomy, the registry of
// well-known keys and typed helpers over any SecureStore.
package keychain

import "strconv"

// Status is a platform status code as returned by an ItemStore.
// The values mirror the generic-password item API so that a native bridge can
// pass codes through untouched.
type Status int32

const (
	StatusSuccess               Status = 0
	StatusUserCanceled          Status = -128
	StatusParam                 Status = -50
	StatusIO                    Status = -36
	StatusAuthFailed            Status = -25293
	StatusDuplicateItem         Status = -25299
	StatusItemNotFound          Status = -25300
	StatusInteractionNotAllowed Status = -25308
	StatusDecode                Status = -26275
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUserCanceled:
		return "user canceled"
	case StatusParam:
		return "invalid parameter"
	case StatusIO:
		return "i/o error"
	case StatusAuthFailed:
		return "authentication failed"
	case StatusDuplicateItem:
		return "duplicate item"
	case StatusItemNotFound:
		return "item not found"
	case StatusInteractionNotAllowed:
		return "interaction not allowed"
	case StatusDecode:
		return "unable to decode item"
	default:
		return "status " + strconv.Itoa(int(s))
	}
}
