package ui

import "testing"

func TestDecodeKeysRunes(t *testing.T) {
	keys := decodeKeys([]byte("jq "))
	if len(keys) != 3 {
		t.Fatalf("keys = %d", len(keys))
	}
	want := []rune{'j', 'q', ' '}
	for i, k := range keys {
		if k.Kind != KeyRune || k.Rune != want[i] {
			t.Errorf("keys[%d] = %+v, want rune %q", i, k, want[i])
		}
	}
}

func TestDecodeKeysArrows(t *testing.T) {
	keys := decodeKeys([]byte("\x1b[A\x1b[B"))
	if len(keys) != 2 {
		t.Fatalf("keys = %d", len(keys))
	}
	if keys[0].Kind != KeyUp || keys[1].Kind != KeyDown {
		t.Errorf("keys = %+v", keys)
	}
}

func TestDecodeKeysEscape(t *testing.T) {
	keys := decodeKeys([]byte{0x1b})
	if len(keys) != 1 || keys[0].Kind != KeyEsc {
		t.Errorf("keys = %+v", keys)
	}
}

func TestDecodeKeysEnterAndCtrlC(t *testing.T) {
	keys := decodeKeys([]byte{'\r', 0x03})
	if len(keys) != 2 {
		t.Fatalf("keys = %d", len(keys))
	}
	if keys[0].Kind != KeyEnter {
		t.Errorf("keys[0] = %+v", keys[0])
	}
	if keys[1].Kind != KeyRune || keys[1].Rune != 'q' {
		t.Errorf("ctrl-c = %+v, want quit rune", keys[1])
	}
}

func TestDecodeKeysDropsControlBytes(t *testing.T) {
	keys := decodeKeys([]byte{0x01, 0x7f, 'x'})
	if len(keys) != 1 || keys[0].Rune != 'x' {
		t.Errorf("keys = %+v", keys)
	}
}

func TestVisibleRange(t *testing.T) {
	first, last := visibleRange(0, 3, 10)
	if first != 0 || last != 3 {
		t.Errorf("small list: %d..%d", first, last)
	}

	first, last = visibleRange(50, 100, 10)
	if last-first != 10 {
		t.Errorf("window = %d, want 10", last-first)
	}
	if 50 < first || 50 >= last {
		t.Errorf("cursor outside window %d..%d", first, last)
	}

	first, last = visibleRange(99, 100, 10)
	if last != 100 || first != 90 {
		t.Errorf("tail window = %d..%d", first, last)
	}
}

func TestVisibleLen(t *testing.T) {
	if n := visibleLen("\x1b[31mred\x1b[0m"); n != 3 {
		t.Errorf("visibleLen = %d, want 3", n)
	}
	if n := visibleLen("plain"); n != 5 {
		t.Errorf("visibleLen = %d, want 5", n)
	}
}
