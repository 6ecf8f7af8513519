package zilliz

import (
	"errors"
	"fmt"
	"testing"
)

func TestParams_Encode(t *testing.T) {
	tests := []struct {
		name  string
		build func() Params
		want  string
	}{
		{
			name:  "nil params",
			build: func() Params { return nil },
			want:  "",
		},
		{
			name: "insertion order preserved",
			build: func() Params {
				var p Params
				p.Set("zeta", "1")
				p.Set("alpha", "2")
				return p
			},
			want: "zeta=1&alpha=2",
		},
		{
			name: "values percent-encoded",
			build: func() Params {
				var p Params
				p.Set("filter", `id > 0 && name == "a b"`)
				return p
			},
			want: "filter=" + "id+%3E+0+%26%26+name+%3D%3D+%22a+b%22",
		},
		{
			name: "empty value kept",
			build: func() Params {
				var p Params
				p.Set("dbName", "")
				return p
			},
			want: "dbName=",
		},
		{
			name: "int helper",
			build: func() Params {
				var p Params
				p.SetInt("pageSize", 10)
				return p
			},
			want: "pageSize=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_SentinelMatching(t *testing.T) {
	kinds := map[Kind]error{
		KindTransport: ErrTransport,
		KindHTTP:      ErrHTTP,
		KindDecode:    ErrDecode,
		KindBusiness:  ErrBusiness,
		KindNotFound:  ErrNotFound,
	}

	for kind, sentinel := range kinds {
		err := newAPIError(kind, "boom", 0, nil)
		if !errors.Is(err, sentinel) {
			t.Errorf("kind %s does not match its sentinel", kind)
		}
		for otherKind, other := range kinds {
			if otherKind == kind {
				continue
			}
			if errors.Is(err, other) {
				t.Errorf("kind %s wrongly matches sentinel of %s", kind, otherKind)
			}
		}
	}
}

func TestAPIError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := newAPIError(KindTransport, "transport failure", 0, cause)

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable via errors.Is")
	}
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{name: "success envelope", body: `{"code": 0, "message": "ok", "data": [1]}`, wantOK: true},
		{name: "business envelope", body: `{"code": 40001, "message": "quota exceeded"}`, wantOK: true},
		{name: "missing code", body: `{"message": "ok"}`, wantOK: false},
		{name: "not an object", body: `[1, 2]`, wantOK: false},
		{name: "invalid json", body: `{`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := decodeEnvelope([]byte(tt.body))
			if ok != tt.wantOK {
				t.Errorf("decodeEnvelope ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}
