// ABOUTME: OSS ioctl request numbers for FreeBSD
// ABOUTME: Encoded with the BSD _IO layout
package output

const (
	sndctlDSPReset = 0x20005000
	sndctlDSPSync  = 0x20005001
)
