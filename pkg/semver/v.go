package semver

import (
	"runtime/debug"
	"strconv"
	"strings"
)

type (
	// V is structured semantic version representation
	V struct {
		Major, Minor, Patch uint
		PreRelease          string
		BuildMetadata       []string
	}
)

func (v V) String() string {
	buf := strings.Builder{}
	buf.WriteString(strconv.FormatUint(uint64(v.Major), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(v.Minor), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(v.Patch), 10))
	if v.PreRelease != "" {
		buf.WriteByte('-')
		buf.WriteString(v.PreRelease)
	}
	if len(v.BuildMetadata) > 0 {
		buf.WriteByte('+')
		buf.WriteString(strings.Join(v.BuildMetadata, "."))
	}

	return buf.String()
}

// WithBuild - returns copy of v with VCS revision (shortened to 7 chars) appended to build metadata.
// The revision is taken from settings embedded by go build, v is returned as is if there is no revision.
func (v V) WithBuild(settings []debug.BuildSetting) V {
	revision, dirty := "", false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return v
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	meta := append(append([]string(nil), v.BuildMetadata...), revision)
	if dirty {
		meta = append(meta, "dirty")
	}
	v.BuildMetadata = meta
	return v
}

// BuildSettings - returns settings embedded into running binary, nil if not available.
func BuildSettings() []debug.BuildSetting {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info.Settings
}
