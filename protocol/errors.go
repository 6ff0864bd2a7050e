package protocol

import "errors"

var (
	ErrInvalidPayload = errors.New("invalid payload size")
	ErrRadioInit      = errors.New("radio init failed")
	ErrWakeArm        = errors.New("wake source arming failed")
	ErrRestarted      = errors.New("restart forced")
)
