package camera

// FieldDefault is substituted for any record field that is absent or empty.
const FieldDefault = "unknown"

// Record is a loosely-typed view of one camera, for consumers that only
// care about a few well-known fields and want a safe default for the rest.
type Record map[string]string

// Field returns the value for key, or FieldDefault when the key is absent
// or empty.
func (r Record) Field(key string) string {
	if v, ok := r[key]; ok && v != "" {
		return v
	}
	return FieldDefault
}

// record renders a camera as a Record. Empty fields are omitted so that
// Field's defaulting is observable to consumers.
func record(cam Camera) Record {
	rec := Record{}
	set := func(key, value string) {
		if value != "" {
			rec[key] = value
		}
	}

	set("id", cam.ID)
	set("name", cam.Name)
	set("host", cam.Host)
	set("model", cam.Model)
	set("status", string(cam.Status))

	return rec
}
