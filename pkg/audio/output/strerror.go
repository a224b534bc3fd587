// ABOUTME: Per-backend translation of negative status codes to text
// ABOUTME: Covers errno, PulseAudio protocol errors and miniaudio results
package output

import (
	"fmt"
	"syscall"
)

// errnoStrerror translates -errno codes used by kernel device backends.
func errnoStrerror(code int) string {
	if code == 0 {
		return "Success"
	}
	if code > 0 {
		code = -code
	}
	return syscall.Errno(-code).Error()
}

// PulseAudio protocol error numbers.
const (
	paErrAccess               = 1
	paErrInvalid              = 3
	paErrExist                = 4
	paErrConnectionRefused    = 6
	paErrTimeout              = 8
	paErrConnectionTerminated = 11
	paErrNotSupported         = 19
	paErrUnknown              = 20
	paErrIO                   = 25
	paErrBusy                 = 26
)

var pulseErrors = [...]string{
	0:                         "OK",
	paErrAccess:               "Access denied",
	2:                         "Unknown command",
	paErrInvalid:              "Invalid argument",
	paErrExist:                "Entity exists",
	5:                         "No such entity",
	paErrConnectionRefused:    "Connection refused",
	7:                         "Protocol error",
	paErrTimeout:              "Timeout",
	9:                         "No authentication key",
	10:                        "Internal error",
	paErrConnectionTerminated: "Connection terminated",
	12:                        "Entity killed",
	13:                        "Invalid server",
	14:                        "Module initialization failed",
	15:                        "Bad state",
	16:                        "No data",
	17:                        "Incompatible protocol version",
	18:                        "Too large",
	paErrNotSupported:         "Not supported",
	paErrUnknown:              "Unknown error code",
	21:                        "No such extension",
	22:                        "Obsolete functionality",
	23:                        "Missing implementation",
	24:                        "Client forked",
	paErrIO:                   "Input/Output error",
	paErrBusy:                 "Device or resource busy",
}

func pulseStrerror(code int) string {
	if code < 0 {
		code = -code
	}
	if code < len(pulseErrors) {
		return pulseErrors[code]
	}
	return fmt.Sprintf("PulseAudio error %d", code)
}

// miniaudio result codes. Failures are already negative.
var miniaudioErrors = map[int]string{
	0:    "No error",
	-1:   "Unknown error",
	-2:   "Invalid argument",
	-3:   "Invalid operation",
	-4:   "Out of memory",
	-5:   "Out of range",
	-6:   "Permission denied",
	-7:   "Resource does not exist",
	-8:   "Resource already exists",
	-17:  "Reached end of collection",
	-19:  "Device or resource busy",
	-20:  "Input/output error",
	-21:  "Operation interrupted",
	-22:  "Resource unavailable",
	-23:  "Resource already in use",
	-29:  "Operation not implemented",
	-32:  "No data available",
	-33:  "Invalid data",
	-34:  "Timeout",
	-51:  "Operation cancelled",
	-100: "Format not supported",
	-101: "Device type not supported",
	-102: "Share mode not supported",
	-103: "No backend",
	-104: "No device",
	-105: "API not found",
	-106: "Invalid device config",
	-107: "Loop",
	-200: "Device not initialized",
	-201: "Device already initialized",
	-202: "Device not started",
	-203: "Device not stopped",
	-300: "Failed to initialize backend",
	-301: "Failed to open backend device",
	-302: "Failed to start backend device",
	-303: "Failed to stop backend device",
}

func miniaudioStrerror(code int) string {
	if s, ok := miniaudioErrors[code]; ok {
		return s
	}
	return fmt.Sprintf("miniaudio result %d", code)
}

var pulseSentinels = sentinelCodes{
	exist:       -paErrExist,
	invalid:     -paErrInvalid,
	unsupported: -paErrNotSupported,
}

var miniaudioSentinels = sentinelCodes{
	exist:       -8,
	invalid:     -2,
	unsupported: -100,
}
