package cookiex

import "time"

// MemJar is an in-process Jar for tests and the admin CLI. It records the
// TTL of the last Set per cookie so callers can assert on it.
type MemJar struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func NewMemJar() *MemJar {
	return &MemJar{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (j *MemJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok && v != ""
}

func (j *MemJar) Set(name, value string, ttl time.Duration) {
	j.values[name] = value
	j.ttls[name] = ttl
}

func (j *MemJar) Delete(name string) {
	delete(j.values, name)
	delete(j.ttls, name)
}

// TTL returns the lifetime recorded by the last Set for name.
func (j *MemJar) TTL(name string) (time.Duration, bool) {
	d, ok := j.ttls[name]
	return d, ok
}
