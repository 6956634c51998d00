package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind(KindUser))
	assert.True(t, ValidKind(KindContributor))
	assert.True(t, ValidKind(KindAdmin))
	assert.False(t, ValidKind("robot"))
	assert.False(t, ValidKind(""))
}

func TestIdentity_IsAdmin(t *testing.T) {
	assert.True(t, Identity{Kind: KindAdmin, AdminID: 1}.IsAdmin())
	assert.False(t, Identity{Kind: KindUser, UserID: 1}.IsAdmin())
	assert.False(t, Identity{Kind: KindContributor, UserID: 1, ContributorID: 2}.IsAdmin())
}

func TestPrincipalRef_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ref     PrincipalRef
		wantErr bool
	}{
		{"valid user ref", PrincipalRef{Kind: KindUser, ID: 1}, false},
		{"valid contributor ref", PrincipalRef{Kind: KindContributor, ID: 5}, false},
		{"valid admin ref", PrincipalRef{Kind: KindAdmin, ID: 9}, false},
		{"unknown kind", PrincipalRef{Kind: "robot", ID: 1}, true},
		{"zero id", PrincipalRef{Kind: KindUser, ID: 0}, true},
		{"negative id", PrincipalRef{Kind: KindUser, ID: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
