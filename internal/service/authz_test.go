package service

import (
	"testing"

	"document_manager/internal/model"

	"github.com/stretchr/testify/assert"
)

func user(id, permissions int, email string) *model.User {
	return &model.User{ID: id, Permissions: permissions, Email: email}
}

func TestCanModifyDocument(t *testing.T) {
	doc := &model.Document{ID: 10, OwnerID: 1}

	tests := []struct {
		name  string
		actor *model.User
		want  bool
	}{
		{"owner with no role", user(1, model.PermissionNone, "owner@x.com"), true},
		{"owner with basic role", user(1, model.PermissionBasic, "owner@x.com"), true},
		{"editor who is not owner", user(2, model.PermissionEditor, "editor@x.com"), true},
		{"admin who is not owner", user(2, model.PermissionAdmin, "admin@x.com"), true},
		{"basic non-owner", user(2, model.PermissionBasic, "other@x.com"), false},
		{"no-role non-owner", user(2, model.PermissionNone, "other@x.com"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyDocument(tt.actor, doc))
		})
	}
}

func TestCanManageDocumentTypes(t *testing.T) {
	assert.False(t, CanManageDocumentTypes(user(1, model.PermissionNone, "")))
	assert.False(t, CanManageDocumentTypes(user(1, model.PermissionBasic, "")))
	assert.True(t, CanManageDocumentTypes(user(1, model.PermissionEditor, "")))
	assert.True(t, CanManageDocumentTypes(user(1, model.PermissionAdmin, "")))
}

func TestCanCreateDocuments(t *testing.T) {
	assert.False(t, CanCreateDocuments(user(1, model.PermissionNone, "")))
	assert.True(t, CanCreateDocuments(user(1, model.PermissionBasic, "")))
	assert.True(t, CanCreateDocuments(user(1, model.PermissionAdmin, "")))
}

func TestCanAdministerUsers(t *testing.T) {
	assert.False(t, CanAdministerUsers(user(1, model.PermissionEditor, "")))
	assert.True(t, CanAdministerUsers(user(1, model.PermissionAdmin, "")))
}

func TestCanEditOwnProfile(t *testing.T) {
	assert.True(t, CanEditOwnProfile(user(1, model.PermissionBasic, "me@x.com"), "me@x.com"))
	assert.False(t, CanEditOwnProfile(user(1, model.PermissionEditor, "me@x.com"), "other@x.com"))
	assert.True(t, CanEditOwnProfile(user(1, model.PermissionAdmin, "me@x.com"), "other@x.com"))
}

func TestCanDeleteUser(t *testing.T) {
	assert.True(t, CanDeleteUser(user(1, model.PermissionBasic, ""), 1))
	assert.False(t, CanDeleteUser(user(1, model.PermissionEditor, ""), 2))
	assert.True(t, CanDeleteUser(user(1, model.PermissionAdmin, ""), 2))
}
