// Package report encodes a detection profile and its resolved render settings
// for the native tools and the browser bridge.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nmxmxh/xrscene/kernel/device"
	"github.com/nmxmxh/xrscene/kernel/render"
)

// Format selects the output encoding
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatProto Format = "proto"
)

// ParseFormat accepts text, json or proto (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatProto:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or proto)", s)
	}
}

// ProfileMap flattens a profile into JSON-compatible values
func ProfileMap(p *device.Profile) map[string]any {
	if p == nil {
		return map[string]any{"category": device.CategoryUnknown.String()}
	}
	rec := p.Record
	fallbacks := make(map[string]any)
	for signal, reason := range p.Fallbacks() {
		fallbacks[signal] = string(reason)
	}
	out := map[string]any{
		"session":  p.SessionID,
		"category": p.Category.String(),
		"emoji":    p.Emoji(),
		"tier":     p.Tier.String(),
		"rule":     p.MatchedRule,
		"record": map[string]any{
			"screenSize":    string(rec.ScreenSize),
			"screenWidth":   rec.ScreenWidth,
			"screenHeight":  rec.ScreenHeight,
			"isTouchDevice": rec.IsTouchDevice,
			"hasVR":         rec.HasVRSession,
			"hasAR":         rec.HasARSession,
			"webXRSupport":  rec.WebXRSupport(),
			"gpu":           rec.GPU,
			"memory":        rec.Memory,
			"cores":         rec.Cores,
			"userAgent":     rec.UserAgent,
			"pixelRatio":    rec.PixelRatio,
		},
		"fallbacks": fallbacks,
	}
	if !p.DetectedAt.IsZero() {
		out["detectedAt"] = p.DetectedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// SettingsMap flattens render settings into JSON-compatible values
func SettingsMap(s render.Settings) map[string]any {
	return map[string]any{
		"pixelRatio":    s.PixelRatio,
		"shadows":       s.Shadows,
		"antialias":     s.Antialias,
		"shadowMapSize": s.ShadowMapSize,
		"maxLights":     s.MaxLights,
		"wireframe":     s.Wireframe,
		"background":    s.Background.Hex(),
		"helpers": map[string]any{
			"axes":         s.Helpers.Axes,
			"lightHelper":  s.Helpers.DirectionalLight,
			"shadowCamera": s.Helpers.ShadowCamera,
		},
		"ambientIntensity":     s.AmbientIntensity,
		"directionalIntensity": s.DirectionalIntensity,
		"directionalPosition": map[string]any{
			"x": s.DirectionalPosition.X,
			"y": s.DirectionalPosition.Y,
			"z": s.DirectionalPosition.Z,
		},
	}
}

// Build assembles the report as a google.protobuf.Struct
func Build(p *device.Profile, s render.Settings) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(map[string]any{
		"profile":  ProfileMap(p),
		"settings": SettingsMap(s),
	})
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return st, nil
}

// Encode renders the report in the given format
func Encode(format Format, p *device.Profile, s render.Settings) ([]byte, error) {
	if format == FormatText {
		var b strings.Builder
		if err := WriteText(&b, p, s); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	}

	st, err := Build(p, s)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	case FormatProto:
		return proto.MarshalOptions{Deterministic: true}.Marshal(st)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Decode parses a json or proto report back into plain values
func Decode(format Format, data []byte) (map[string]any, error) {
	st := &structpb.Struct{}
	var err error
	switch format {
	case FormatJSON:
		err = protojson.Unmarshal(data, st)
	case FormatProto:
		err = proto.Unmarshal(data, st)
	default:
		return nil, fmt.Errorf("report format %q cannot be decoded", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return st.AsMap(), nil
}

// WriteText writes the report the way the debug panel lays it out
func WriteText(w io.Writer, p *device.Profile, s render.Settings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if p == nil {
		fmt.Fprintln(tw, "Device\tnot detected")
	} else {
		rec := p.Record
		fmt.Fprintf(tw, "Device\t%s %s\n", p.Emoji(), p.Category)
		fmt.Fprintf(tw, "Performance\t%s\n", p.Tier)
		fmt.Fprintf(tw, "Matched Rule\t%s\n", p.MatchedRule)
		fmt.Fprintf(tw, "Screen\t%s (%dx%d @%gx)\n", rec.ScreenSize, rec.ScreenWidth, rec.ScreenHeight, rec.PixelRatio)
		fmt.Fprintf(tw, "Touch\t%t\n", rec.IsTouchDevice)
		fmt.Fprintf(tw, "VR / AR\t%t / %t\n", rec.HasVRSession, rec.HasARSession)
		fmt.Fprintf(tw, "WebXR API\t%s\n", rec.WebXRSupport())
		fmt.Fprintf(tw, "GPU\t%s\n", rec.GPU)
		fmt.Fprintf(tw, "Memory\t%s\n", rec.Memory)
		fmt.Fprintf(tw, "CPU\t%s\n", rec.Cores)
		fmt.Fprintf(tw, "User Agent\t%s\n", rec.UserAgent)

		if fb := p.Fallbacks(); len(fb) > 0 {
			signals := make([]string, 0, len(fb))
			for k := range fb {
				signals = append(signals, k)
			}
			sort.Strings(signals)
			parts := make([]string, len(signals))
			for i, k := range signals {
				parts[i] = k + "=" + string(fb[k])
			}
			fmt.Fprintf(tw, "Fallbacks\t%s\n", strings.Join(parts, ", "))
		}
	}

	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Pixel Ratio\t%g\n", s.PixelRatio)
	fmt.Fprintf(tw, "Shadows\t%t (map %d)\n", s.Shadows, s.ShadowMapSize)
	fmt.Fprintf(tw, "Antialias\t%t\n", s.Antialias)
	fmt.Fprintf(tw, "Max Lights\t%d\n", s.MaxLights)
	fmt.Fprintf(tw, "Background\t%s\n", s.Background.Hex())

	return tw.Flush()
}
