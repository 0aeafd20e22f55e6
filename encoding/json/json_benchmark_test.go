package json

import "testing"

func BenchmarkUnmarshal(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Unmarshal([]byte(`[1757573580000,"4321.10","4325.00","4319.55","4322.01","0",1757573639999]`), &[]any{})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()
	if !Valid([]byte(`{"symbol":"BTCUSDT"}`)) {
		t.Fatal("expected valid JSON")
	}
	if Valid([]byte(`{"symbol":`)) {
		t.Fatal("expected invalid JSON")
	}
}
