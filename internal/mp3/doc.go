// Package mp3 inspects MPEG audio streams. Its single concern is the
// accurate play length of an encode, read from a VBR header when the
// encoder wrote one and otherwise measured by walking every frame.
package mp3
