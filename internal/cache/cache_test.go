package cache

import "testing"

func TestKeyIsDeterministicForIdenticalInputs(t *testing.T) {
	a := Key([]byte("title: x\ncondition: selection"), "splunk", map[string]string{"Image": "process.executable"})
	b := Key([]byte("title: x\ncondition: selection"), "splunk", map[string]string{"Image": "process.executable"})
	if a != b {
		t.Fatalf("expected identical inputs to produce identical keys: %s != %s", a, b)
	}
}

func TestKeyIsCaseInsensitiveOnTarget(t *testing.T) {
	a := Key([]byte("rule"), "Splunk", nil)
	b := Key([]byte("rule"), "SPLUNK", nil)
	if a != b {
		t.Fatalf("expected target casing to not affect the key: %s != %s", a, b)
	}
}

func TestKeyDiffersOnRuleText(t *testing.T) {
	a := Key([]byte("rule one"), "splunk", nil)
	b := Key([]byte("rule two"), "splunk", nil)
	if a == b {
		t.Fatalf("expected different rule text to produce different keys")
	}
}

func TestKeyDiffersOnTarget(t *testing.T) {
	a := Key([]byte("rule"), "splunk", nil)
	b := Key([]byte("rule"), "sentinel", nil)
	if a == b {
		t.Fatalf("expected different targets to produce different keys")
	}
}

func TestKeyDiffersOnOptions(t *testing.T) {
	a := Key([]byte("rule"), "splunk", map[string]string{"Image": "a"})
	b := Key([]byte("rule"), "splunk", map[string]string{"Image": "b"})
	if a == b {
		t.Fatalf("expected different options to produce different keys")
	}
}
