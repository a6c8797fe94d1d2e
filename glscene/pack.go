package glscene

import (
	"encoding/binary"
	"math"

	"github.com/molray/molray"
)

// ShapeStride is the byte size of one packed shape record. Records follow
// the shader's std430 struct layout: every field begins on a 16-byte
// boundary except the trailing scalars, which pad the record out to a
// 16-byte multiple.
//
//	offset  0: start xyz + padding  (vec4)
//	offset 16: end xyz + padding    (vec4)
//	offset 32: color xyz + padding  (vec4)
//	offset 48: kind                 (uint)
//	offset 52: radius               (float)
//	offset 56: padding to 64
const ShapeStride = 64

// AppendShapes appends the packed little-endian representation of shapes to
// dst, [ShapeStride] bytes per shape, and returns the result. The output is
// uploaded verbatim as the shader's shape storage buffer.
func AppendShapes(dst []byte, shapes []molray.Shape) []byte {
	for i := range shapes {
		dst = appendShape(dst, &shapes[i])
	}
	return dst
}

// PackScene packs the scene's shapes into a freshly allocated buffer.
func PackScene(sc *molray.Scene) []byte {
	return AppendShapes(make([]byte, 0, sc.Len()*ShapeStride), sc.Shapes())
}

func appendShape(dst []byte, s *molray.Shape) []byte {
	dst = appendVec4(dst, s.Start.X, s.Start.Y, s.Start.Z)
	dst = appendVec4(dst, s.End.X, s.End.Y, s.End.Z)
	dst = appendVec4(dst, s.Color.X, s.Color.Y, s.Color.Z)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(s.Kind))
	dst = appendFloat(dst, s.Radius)
	dst = append(dst, 0, 0, 0, 0, 0, 0, 0, 0)
	return dst
}

func appendVec4(dst []byte, x, y, z float32) []byte {
	dst = appendFloat(dst, x)
	dst = appendFloat(dst, y)
	dst = appendFloat(dst, z)
	return append(dst, 0, 0, 0, 0)
}

func appendFloat(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}
