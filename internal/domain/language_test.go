package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{in: "ar", want: LanguageArabic},
		{in: " FR ", want: LanguageFrench},
		{in: "Ar", want: LanguageArabic},
		{in: "en", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLanguage(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLanguageDirection(t *testing.T) {
	assert.True(t, LanguageArabic.IsRTL())
	assert.False(t, LanguageFrench.IsRTL())
	assert.False(t, Language("").Valid())
}

func TestSenderRoleMapping(t *testing.T) {
	assert.Equal(t, RoleUser, SenderUser.Role())
	assert.Equal(t, RoleAssistant, SenderAssistant.Role())

	turn := Message{Text: "salam", Sender: SenderUser}.Turn()
	assert.Equal(t, Turn{Role: RoleUser, Content: "salam"}, turn)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindNetworkFailure, KindOf(errors.New("dial tcp: refused")))

	wrapped := fmt.Errorf("chat: %w", &GatewayError{Kind: KindRateLimited, StatusCode: 429, Err: errors.New("slow down")})
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
}

func TestErrorKindTransient(t *testing.T) {
	assert.True(t, KindNetworkFailure.Transient())
	assert.True(t, KindServiceUnavailable.Transient())
	assert.True(t, KindRateLimited.Transient())
	assert.False(t, KindUnauthorized.Transient())
	assert.False(t, KindMalformedResponse.Transient())
}
