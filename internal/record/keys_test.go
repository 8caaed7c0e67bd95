package record

import (
	"regexp"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			"ci pool key upper-cases group",
			Key{Pool: "qa", Branch: "main", Discriminator: "839201123", Kind: KindCIPool},
			"QA_MAIN_839201123_SBX",
		},
		{
			"developer key",
			Key{Pool: "platform", Branch: "release", Discriminator: "118273645", Kind: KindDeveloper},
			"PLATFORM_RELEASE_118273645_DEVSBX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key    string
		want   Key
		wantOK bool
	}{
		{
			key:    "QA_MAIN_839201123_SBX",
			want:   Key{Pool: "QA", Branch: "MAIN", Discriminator: "839201123", Kind: KindCIPool},
			wantOK: true,
		},
		{
			key:    "CORE_BANKING_MAIN_42_SBX",
			want:   Key{Pool: "CORE_BANKING", Branch: "MAIN", Discriminator: "42", Kind: KindCIPool},
			wantOK: true,
		},
		{
			key:    "QA_MAIN_118273645_DEVSBX",
			want:   Key{Pool: "QA", Branch: "MAIN", Discriminator: "118273645", Kind: KindDeveloper},
			wantOK: true,
		},
		{key: "SOME_OTHER_VARIABLE", wantOK: false},
		{key: "TOO_SHORT_SBX", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ParseKey(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("ParseKey ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseKey = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPoolPattern(t *testing.T) {
	re := regexp.MustCompile(PoolPattern("qa", "main"))

	matches := []string{"QA_MAIN_1_SBX", "QA_MAIN_839201123_SBX"}
	for _, key := range matches {
		if !re.MatchString(key) {
			t.Errorf("pattern should match %s", key)
		}
	}

	rejects := []string{
		"QA_MAIN_1_DEVSBX",       // wrong kind
		"QA_RELEASE_1_SBX",       // wrong branch
		"STAGING_QA_MAIN_1_SBX",  // wrong pool
		"QA_MAIN_1_SBX_ARCHIVED", // trailing junk
	}
	for _, key := range rejects {
		if re.MatchString(key) {
			t.Errorf("pattern should not match %s", key)
		}
	}
}

func TestKindPatterns(t *testing.T) {
	ci := regexp.MustCompile(CIPattern())
	dev := regexp.MustCompile(DeveloperPattern())
	any := regexp.MustCompile(AnyPattern())

	if !ci.MatchString("QA_MAIN_1_SBX") || ci.MatchString("QA_MAIN_1_DEVSBX") {
		t.Error("CIPattern should match only _SBX keys")
	}
	if !dev.MatchString("QA_MAIN_1_DEVSBX") || dev.MatchString("QA_MAIN_1_SBX") {
		t.Error("DeveloperPattern should match only _DEVSBX keys")
	}
	if !any.MatchString("QA_MAIN_1_SBX") || !any.MatchString("QA_MAIN_1_DEVSBX") {
		t.Error("AnyPattern should match both kinds")
	}
	if any.MatchString("DEPLOY_LOCK_MAIN") {
		t.Error("AnyPattern should not match unrelated variables")
	}
}
