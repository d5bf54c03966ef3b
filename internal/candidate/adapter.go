package candidate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord is returned when a raw record cannot identify itself.
var ErrMalformedRecord = errors.New("malformed candidate record")

// RawRecord is a loosely typed payload as returned by the Record Store.
type RawRecord map[string]interface{}

// Field names read from raw records. Alternates cover the older card export.
var (
	fieldID         = []string{"id"}
	fieldKind       = []string{"kind", "type"}
	fieldName       = []string{"name", "title", "display_name"}
	fieldTreatments = []string{"treatments", "treatment"}
	fieldAreas      = []string{"areas", "area_names", "area"}
	fieldSurgical   = []string{"surgical"}
	fieldCaption    = []string{"caption"}
	fieldStory      = []string{"story"}
	fieldPhotos     = []string{"photos", "attachments"}
)

// PhotoAssetResolver turns raw attachment metadata into display URLs.
type PhotoAssetResolver interface {
	Resolve(attachments []interface{}) (photoURL, thumbnailURL string)
}

// AttachmentResolver reads the first attachment, preferring its large
// thumbnail for display and its small thumbnail for previews.
type AttachmentResolver struct{}

// Resolve implements PhotoAssetResolver.
func (AttachmentResolver) Resolve(attachments []interface{}) (string, string) {
	for _, a := range attachments {
		att, ok := a.(map[string]interface{})
		if !ok {
			continue
		}
		full := stringAt(att, "url")
		thumbs, _ := att["thumbnails"].(map[string]interface{})
		photo := firstNonEmpty(nestedURL(thumbs, "large"), nestedURL(thumbs, "full"), full)
		if photo == "" {
			continue
		}
		return photo, firstNonEmpty(nestedURL(thumbs, "small"), photo)
	}
	return "", ""
}

// FromRecord maps a raw record onto an Item. Only a missing id is an error;
// every other absent field maps to its empty value.
func FromRecord(rec RawRecord, resolver PhotoAssetResolver) (Item, error) {
	id := rec.str(fieldID)
	if id == "" {
		return Item{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if resolver == nil {
		resolver = AttachmentResolver{}
	}

	item := Item{
		ID:          id,
		Kind:        ParseKind(rec.str(fieldKind)),
		DisplayName: rec.str(fieldName),
		Treatments:  rec.list(fieldTreatments),
		AreaNames:   rec.list(fieldAreas),
		Surgical:    rec.boolean(fieldSurgical),
		Caption:     rec.str(fieldCaption),
		Story:       rec.str(fieldStory),
	}
	item.PhotoURL, item.ThumbnailURL = resolver.Resolve(rec.slice(fieldPhotos))
	return item, nil
}

// FromRecords maps every record, skipping malformed ones. The number of
// skipped records is returned so callers can log it.
func FromRecords(recs []RawRecord, resolver PhotoAssetResolver) ([]Item, int) {
	items := make([]Item, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		item, err := FromRecord(rec, resolver)
		if err != nil {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

func (r RawRecord) lookup(keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r RawRecord) str(keys []string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	case int, int64, float64:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// list accepts either an array of strings or a comma separated string.
func (r RawRecord) list(keys []string) []string {
	v, ok := r.lookup(keys)
	if !ok {
		return []string{}
	}
	var parts []string
	switch t := v.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []string:
		parts = t
	case []interface{}:
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r RawRecord) boolean(keys []string) bool {
	v, ok := r.lookup(keys)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return strings.EqualFold(strings.TrimSpace(t), "yes")
		}
		return b
	default:
		return false
	}
}

func (r RawRecord) slice(keys []string) []interface{} {
	v, ok := r.lookup(keys)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []interface{}:
		return t
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

func stringAt(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func nestedURL(thumbs map[string]interface{}, size string) string {
	if thumbs == nil {
		return ""
	}
	entry, _ := thumbs[size].(map[string]interface{})
	return stringAt(entry, "url")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
