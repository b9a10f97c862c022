/*
Package img2json decodes animated GIF images into an immutable, serializable
model and converts that model to and from JSON.

Every frame of the animation is composited onto the full canvas and stored as
a row-major sequence of 8-bit samples together with its exact delay, a ratio
in milliseconds. Samples are either RGB, with alpha dropped, or RGBA,
selected with the Channels decode option. The JSON document has the form:

	{
	  "dimensions": [width, height],
	  "length": frame_count,
	  "frames": [{"delay_ratio": [numerator, denominator], "pixels": [[r, g, b], ...]}, ...]
	}
*/
package img2json

import "fmt"

type VersionInfo struct {
	Major, Minor, Patch uint
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

var Version = VersionInfo{1, 0, 0}
