package api

import (
	"github.com/gorilla/mux"
)

type Handlers struct {
	Columns       *ColumnHandler
	Donors        *DonorHandler
	Boards        *BoardHandler
	Templates     *TemplateHandler
	Invitations   *InvitationHandler
	Notifications *NotificationHandler
	Accounts      *AccountHandler
}

func SetupRoutes(h Handlers, allowedOrigin string) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(allowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/api/columns", h.Columns.List).Methods("GET")
	r.HandleFunc("/api/columns", h.Columns.Create).Methods("POST")
	r.HandleFunc("/api/columns/reorder", h.Columns.Reorder).Methods("PATCH")
	r.HandleFunc("/api/columns/{key}", h.Columns.Get).Methods("GET")
	r.HandleFunc("/api/columns/{key}", h.Columns.Update).Methods("PATCH")
	r.HandleFunc("/api/columns/{key}", h.Columns.Delete).Methods("DELETE")
	r.HandleFunc("/api/columns/{key}/restore", h.Columns.Restore).Methods("POST")
	r.HandleFunc("/api/columns/{key}/duplicate", h.Columns.Duplicate).Methods("POST")
	r.HandleFunc("/api/columns/{key}/retype", h.Columns.Retype).Methods("PATCH")
	r.HandleFunc("/api/columns/{key}/autofill", h.Columns.Autofill).Methods("POST")
	r.HandleFunc("/api/columns/{key}/insert-right", h.Columns.InsertRight).Methods("POST")

	r.HandleFunc("/api/donors", h.Donors.List).Methods("GET")
	r.HandleFunc("/api/donors", h.Donors.Create).Methods("POST")
	r.HandleFunc("/api/donors/filter", h.Donors.Filter).Methods("POST")
	r.HandleFunc("/api/donors/group-by", h.Donors.GroupBy).Methods("POST")
	r.HandleFunc("/api/donors/sort", h.Donors.Sort).Methods("POST")
	r.HandleFunc("/api/donors/{id}", h.Donors.Get).Methods("GET")
	r.HandleFunc("/api/donors/{id}", h.Donors.Update).Methods("PATCH")
	r.HandleFunc("/api/donors/{id}", h.Donors.Delete).Methods("DELETE")
	r.HandleFunc("/api/donors/{id}/custom", h.Donors.UpdateCustomField).Methods("PATCH")
	r.HandleFunc("/api/donors/{id}/files", h.Donors.Files).Methods("GET")
	r.HandleFunc("/api/donors/{id}/files", h.Donors.AttachFile).Methods("POST")

	r.HandleFunc("/api/boards", h.Boards.List).Methods("GET")
	r.HandleFunc("/api/boards", h.Boards.Create).Methods("POST")
	r.HandleFunc("/api/boards/search", h.Boards.Search).Methods("GET")
	r.HandleFunc("/api/boards/user/{userId}", h.Boards.ListByUser).Methods("GET")
	r.HandleFunc("/api/boards/{id}", h.Boards.Get).Methods("GET")
	r.HandleFunc("/api/boards/{id}", h.Boards.Update).Methods("PUT")
	r.HandleFunc("/api/boards/{id}", h.Boards.Delete).Methods("DELETE")
	r.HandleFunc("/api/boards/{id}/items", h.Boards.AddItem).Methods("POST")
	r.HandleFunc("/api/boards/{id}/items/{itemId}", h.Boards.UpdateItem).Methods("PATCH")
	r.HandleFunc("/api/boards/{id}/items/{itemId}", h.Boards.DeleteItem).Methods("DELETE")

	r.HandleFunc("/api/templates", h.Templates.List).Methods("GET")
	r.HandleFunc("/api/templates/categories", h.Templates.Categories).Methods("GET")
	r.HandleFunc("/api/templates/search", h.Templates.Search).Methods("GET")
	r.HandleFunc("/api/templates/category/{category}", h.Templates.ListByCategory).Methods("GET")
	r.HandleFunc("/api/templates/{templateId}", h.Templates.Get).Methods("GET")
	r.HandleFunc("/api/templates/{templateId}/use", h.Templates.CreateBoard).Methods("POST")

	r.HandleFunc("/api/invitations/send", h.Invitations.Send).Methods("POST")
	r.HandleFunc("/api/invitations/accept/{token}", h.Invitations.Accept).Methods("GET")

	r.HandleFunc("/api/notifications", h.Notifications.ListByUser).Methods("GET")
	r.HandleFunc("/api/notifications", h.Notifications.Create).Methods("POST")
	r.HandleFunc("/api/notifications/bulk", h.Notifications.CreateBulk).Methods("POST")
	r.HandleFunc("/api/notifications/unread", h.Notifications.ListUnread).Methods("GET")
	r.HandleFunc("/api/notifications/unread-count", h.Notifications.UnreadCount).Methods("GET")
	r.HandleFunc("/api/notifications/type/{type}", h.Notifications.ListByType).Methods("GET")
	r.HandleFunc("/api/notifications/read-all", h.Notifications.MarkAllAsRead).Methods("PUT")
	// Static segment before {id} so mux does not swallow it as an id.
	r.HandleFunc("/api/notifications/read/all", h.Notifications.DeleteAllRead).Methods("DELETE")
	r.HandleFunc("/api/notifications/{id}/read", h.Notifications.MarkAsRead).Methods("PUT")
	r.HandleFunc("/api/notifications/{id}", h.Notifications.Delete).Methods("DELETE")

	r.HandleFunc("/api/account/save-account", h.Accounts.Save).Methods("POST")
	r.HandleFunc("/api/account", h.Accounts.Get).Methods("GET")
	r.HandleFunc("/api/users/email", h.Accounts.SaveEmailLead).Methods("POST")

	return r
}
