// ABOUTME: Audio output package for playing raw PCM on the host's sound system
// ABOUTME: Selects a native backend at creation and forwards every call to it
// Package output plays PCM through whichever native audio API is available.
//
// Backends register themselves per platform and are tried in priority
// order when a handle is created:
//
//   - linux/freebsd: pulseaudio, alsa (linux), oss
//   - darwin: coreaudio (cgo), oto
//   - windows: wasapi (cgo), oto
//   - openbsd/netbsd: sndio (cgo)
//   - any platform with -tags portaudio: portaudio
//
// Pull-model engines (PulseAudio, miniaudio, oto, PortAudio) sit behind a
// lock-free ring so Write keeps blocking semantics; kernel device backends
// (ALSA, OSS) write directly.
//
// The ALSA backend talks to the kernel PCM device through tinyalsa-style
// ioctls and has no plugin layer. Device "" and "default" both open
// hw:0,0 as raw hardware, with no dmix sharing and no format conversion.
// A stream the card cannot take natively fails at Open. Pass
// "hw:CARD,DEVICE" to pick another device.
//
// Example:
//
//	out, err := output.Create("", "reader", "")
//	if err != nil {
//	    return err // errors.Is(err, output.ErrNoDevice)
//	}
//	defer out.Destroy()
//
//	if err := out.Open(audio.S16LE, 22050, 1); err != nil {
//	    return err
//	}
//	err = out.Write(pcm)
//	err = out.Drain()
package output
