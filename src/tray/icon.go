package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"runtime"

	"cursor-guide/src/paint"
)

const iconSize = 32

// IconBytes returns the tray icon in the encoding systray expects on this
// platform: ICO on Windows, PNG elsewhere.
func IconBytes() ([]byte, error) {
	pngData, err := iconPNG(iconSize)
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(pngData, iconSize), nil
	}
	return pngData, nil
}

func iconPNG(size int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, paint.Icon(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapICO builds a single-image ICO container holding pngData (Vista+ format).
func wrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(pngData)), headerLen})
	buf.Write(pngData)
	return buf.Bytes()
}
