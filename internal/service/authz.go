package service

import "document_manager/internal/model"

// Authorization predicates. All of them are pure functions over the actor and
// the addressed resource; every mutating flow consults the matching predicate
// before touching the store.

// CanCreateDocuments allows any level above none
func CanCreateDocuments(actor *model.User) bool {
	return actor.Permissions >= model.PermissionBasic
}

// CanManageDocumentTypes allows editors and above
func CanManageDocumentTypes(actor *model.User) bool {
	return actor.Permissions >= model.PermissionEditor
}

// CanModifyDocument allows editors and above, or the document owner
func CanModifyDocument(actor *model.User, doc *model.Document) bool {
	return actor.Permissions >= model.PermissionEditor || actor.ID == doc.OwnerID
}

// CanAdministerUsers allows admins only
func CanAdministerUsers(actor *model.User) bool {
	return actor.Permissions == model.PermissionAdmin
}

// CanEditOwnProfile allows admins, or the user addressed by email
func CanEditOwnProfile(actor *model.User, targetEmail string) bool {
	return actor.Permissions == model.PermissionAdmin || actor.Email == targetEmail
}

// CanDeleteUser allows admins, or the user deleting their own account
func CanDeleteUser(actor *model.User, targetID int) bool {
	return actor.Permissions == model.PermissionAdmin || actor.ID == targetID
}
