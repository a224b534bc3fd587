// ABOUTME: OSS ioctl request numbers for Linux
// ABOUTME: Encoded with the Linux _IO layout
package output

const (
	sndctlDSPReset = 0x00005000
	sndctlDSPSync  = 0x00005001
)
