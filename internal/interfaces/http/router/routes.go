package router

import (
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/interfaces/http/handler"
	"github.com/loro/backend/internal/interfaces/http/middleware"
)

var (
	adminOnly      = middleware.RequireRole(identity.RoleAdmin)
	managerOrAbove = middleware.RequireRole(identity.RoleManager)
	supervisorUp   = middleware.RequireRole(identity.RoleSupervisor)
)

func authPublicRoutes(h *handler.AuthHandler) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/sign-in", h.SignIn)
	g.POST("/refresh", h.Refresh)
	return g
}

func authSessionRoutes(h *handler.AuthHandler) *DomainGroup {
	g := NewDomainGroup("auth-session", "/auth")
	g.POST("/sign-out", h.SignOut)
	g.GET("/me", h.Me)
	return g
}

func organisationRoutes(h *handler.OrganisationHandler) *DomainGroup {
	g := NewDomainGroup("organisations", "/organisations").Use(adminOnly)
	g.POST("", h.CreateOrganisation)
	g.GET("", h.ListOrganisations)
	g.GET("/:id", h.GetOrganisation)
	g.PUT("/:id", h.UpdateOrganisation)
	g.DELETE("/:id", h.DeleteOrganisation)
	return g
}

func branchRoutes(h *handler.OrganisationHandler) *DomainGroup {
	g := NewDomainGroup("branches", "/branches")
	g.POST("", adminOnly, h.CreateBranch)
	g.GET("", h.ListBranches)
	g.GET("/:id", h.GetBranch)
	g.PUT("/:id", adminOnly, h.UpdateBranch)
	g.DELETE("/:id", adminOnly, h.DeleteBranch)
	return g
}

func userRoutes(h *handler.UserHandler) *DomainGroup {
	g := NewDomainGroup("users", "/users")
	g.POST("", managerOrAbove, h.Create)
	g.GET("", supervisorUp, h.List)
	g.GET("/:id", supervisorUp, h.GetByID)
	g.PUT("/:id", managerOrAbove, h.Update)
	g.PUT("/:id/password", h.ChangePassword)
	g.DELETE("/:id", managerOrAbove, h.Delete)
	return g
}

func taskRoutes(h *handler.TaskHandler) *DomainGroup {
	g := NewDomainGroup("tasks", "/tasks")
	g.POST("", supervisorUp, h.Create)
	g.GET("", supervisorUp, h.List)
	g.GET("/me", h.ListMine)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", supervisorUp, h.Update)
	g.PATCH("/:id/progress", h.UpdateProgress)
	g.PATCH("/:id/status", h.ChangeStatus)
	g.PATCH("/:id/subtasks/:subtaskId/complete", h.CompleteSubTask)
	g.DELETE("/:id", supervisorUp, h.Delete)
	g.POST("/:id/restore", supervisorUp, h.Restore)
	g.GET("/:id/routes", h.TaskRoutes)
	g.POST("/:id/routes/replan", supervisorUp, h.ReplanRoutes)
	return g
}

func routeRoutes(h *handler.TaskHandler) *DomainGroup {
	g := NewDomainGroup("routes", "/routes")
	g.GET("", supervisorUp, h.ListRoutes)
	g.GET("/:id", h.GetRoute)
	return g
}

func clientRoutes(h *handler.CRMHandler) *DomainGroup {
	g := NewDomainGroup("clients", "/clients")
	g.POST("", h.CreateClient)
	g.GET("", h.ListClients)
	g.GET("/:id", h.GetClient)
	g.PUT("/:id", h.UpdateClient)
	g.DELETE("/:id", managerOrAbove, h.DeleteClient)
	return g
}

func leadRoutes(h *handler.CRMHandler) *DomainGroup {
	g := NewDomainGroup("leads", "/leads")
	g.POST("", h.CreateLead)
	g.GET("", h.ListLeads)
	g.POST("/rescore", managerOrAbove, h.RescoreLeads)
	g.GET("/:id", h.GetLead)
	g.PUT("/:id", h.UpdateLead)
	g.POST("/:id/convert", h.ConvertLead)
	g.POST("/:id/score", h.ScoreLead)
	g.DELETE("/:id", managerOrAbove, h.DeleteLead)
	return g
}

func quotationRoutes(h *handler.CRMHandler) *DomainGroup {
	g := NewDomainGroup("quotations", "/quotations")
	g.POST("", h.CreateQuotation)
	g.GET("", h.ListQuotations)
	g.GET("/:id", h.GetQuotation)
	g.PATCH("/:id/status", h.ChangeQuotationStatus)
	return g
}

func attendanceRoutes(h *handler.AttendanceHandler) *DomainGroup {
	g := NewDomainGroup("attendance", "/attendance")
	g.POST("/check-in", h.CheckIn)
	g.POST("/check-out", h.CheckOut)
	g.GET("/status", h.Status)
	g.GET("/me", h.Mine)
	g.GET("/branch/:branchId", supervisorUp, h.ByBranch)
	return g
}

func checkInRoutes(h *handler.AttendanceHandler) *DomainGroup {
	g := NewDomainGroup("check-ins", "/check-ins")
	g.POST("", h.StartVisit)
	g.POST("/:id/check-out", h.EndVisit)
	g.GET("", h.ListVisits)
	return g
}

func claimRoutes(h *handler.ClaimHandler) *DomainGroup {
	g := NewDomainGroup("claims", "/claims")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PATCH("/:id/status", h.ChangeStatus)
	g.DELETE("/:id", managerOrAbove, h.Delete)
	return g
}

func leaveRoutes(h *handler.LeaveHandler) *DomainGroup {
	g := NewDomainGroup("leave", "/leave")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/approve", managerOrAbove, h.Approve)
	g.POST("/:id/reject", managerOrAbove, h.Reject)
	g.POST("/:id/cancel", h.Cancel)
	return g
}

func docRoutes(h *handler.DocHandler) *DomainGroup {
	g := NewDomainGroup("docs", "/docs")
	g.POST("/upload-url", h.RequestUpload)
	g.POST("/:id/confirm", h.ConfirmUpload)
	g.GET("/:id/download-url", h.DownloadURL)
	g.GET("", h.List)
	g.DELETE("/:id", managerOrAbove, h.Delete)
	return g
}

func rewardRoutes(h *handler.RewardHandler) *DomainGroup {
	g := NewDomainGroup("rewards", "/rewards")
	g.GET("/me", h.Mine)
	g.GET("/leaderboard", h.Leaderboard)
	g.POST("/award", managerOrAbove, h.Award)
	return g
}

func licenseRoutes(h *handler.LicenseHandler) *DomainGroup {
	g := NewDomainGroup("licenses", "/licenses")
	g.POST("/validate", h.Validate)
	g.POST("", adminOnly, h.Create)
	g.GET("", adminOnly, h.List)
	g.GET("/:id", adminOnly, h.GetByID)
	g.POST("/:id/suspend", adminOnly, h.Suspend)
	g.POST("/:id/activate", adminOnly, h.Activate)
	g.POST("/:id/renew", adminOnly, h.Renew)
	return g
}

func reportRoutes(h *handler.ReportHandler) *DomainGroup {
	g := NewDomainGroup("reports", "/reports").Use(supervisorUp)
	g.GET("/:type", h.Summary)
	g.GET("/:type/export", h.Export)
	return g
}

func settingsRoutes(h *handler.SettingsHandler) *DomainGroup {
	g := NewDomainGroup("settings", "/settings")
	g.GET("/public", h.Public)
	return g
}
