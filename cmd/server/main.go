package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"hostel-management-backend/internal/config"
	"hostel-management-backend/internal/database"
	"hostel-management-backend/internal/handler"
	"hostel-management-backend/internal/middleware"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/notify"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(cfg.JWT.Secret, cfg.JWT.Expiry)

	// 3. Initialize database connection
	db := database.Connect(cfg.Database)

	// 4. Initialize repositories
	hostelRepo := repository.NewHostelRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	deviceRepo := repository.NewDeviceRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)

	// 5. Initialize notification sinks
	mailer := notify.NewMailer(cfg.SMTP, cfg.Server.BaseURL)
	whatsapp := notify.NewWhatsAppClient(cfg.WhatsApp)

	// 6. Initialize services
	authService := service.NewAuthService(cfg.SuperAdmin, hostelRepo, staffRepo, studentRepo)
	scope := service.NewScopeResolver(staffRepo, studentRepo)
	hostelService := service.NewHostelService(hostelRepo, attendanceRepo, mailer)
	staffService := service.NewStaffService(staffRepo, mailer)
	studentService := service.NewStudentService(studentRepo, roomRepo, hostelRepo, mailer)
	roomService := service.NewRoomService(roomRepo, studentRepo)
	deviceService := service.NewDeviceService(deviceRepo)
	attendanceService := service.NewAttendanceService(hostelRepo, studentRepo, attendanceRepo)
	alertService := service.NewAlertService(hostelRepo, studentRepo, attendanceRepo, whatsapp)
	dashboardService := service.NewDashboardService(hostelRepo, studentRepo, deviceRepo, roomRepo, staffRepo, attendanceRepo)

	// 7. Setup Gin mode and router
	gin.SetMode(cfg.Server.GinMode)
	handler.RegisterValidators()
	r := gin.Default()

	r.Use(middleware.CORS(cfg))
	r.Use(middleware.RequestID())

	// 8. Register handlers
	authHandler := handler.NewAuthHandler(authService)
	superAdminHandler := handler.NewSuperAdminHandler(hostelService, dashboardService)
	hostelAdminHandler := handler.NewHostelAdminHandler(hostelService, roomService, staffService, deviceService, scope)
	staffHandler := handler.NewStaffHandler(studentService, roomService, staffService, scope)
	studentHandler := handler.NewStudentHandler(studentService, attendanceService)
	wardenHandler := handler.NewWardenHandler(attendanceService, alertService, hostelService, scope)

	// 9. Define routes
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "hostel-management-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes (login rate limited per client IP)
	loginLimiter := middleware.NewRateLimiter(10, 10)
	auth := r.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(), authHandler.Me)
	}

	// Super-admin routes (cross-tenant)
	superAdmin := r.Group("/super-admin")
	superAdmin.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleSuperAdmin))
	{
		superAdmin.GET("/dashboard", superAdminHandler.Dashboard)
		superAdmin.GET("/hostel", superAdminHandler.ListHostels)
		superAdmin.POST("/hostel", superAdminHandler.CreateHostel)
		superAdmin.GET("/hostel/reports", superAdminHandler.Reports)
		superAdmin.POST("/hostel/resend-invitation", superAdminHandler.ResendInvitation)
		superAdmin.GET("/hostel/:id", superAdminHandler.GetHostel)
		superAdmin.PATCH("/hostel/:id", superAdminHandler.UpdateHostel)
		superAdmin.DELETE("/hostel/:id", superAdminHandler.DeleteHostel)
	}

	// Hostel-admin routes (own tenant)
	hostelAdmin := r.Group("/hostel-admin")
	hostelAdmin.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleHostelAdmin))
	{
		hostelAdmin.GET("/hostel", hostelAdminHandler.GetHostel)
		hostelAdmin.PATCH("/hostel", hostelAdminHandler.UpdateHostel)
		hostelAdmin.POST("/hostel/change-password", hostelAdminHandler.ChangePassword)

		hostelAdmin.GET("/rooms", hostelAdminHandler.ListRooms)
		hostelAdmin.POST("/rooms", hostelAdminHandler.CreateRoom)
		hostelAdmin.PATCH("/rooms/:id", hostelAdminHandler.UpdateRoom)
		hostelAdmin.DELETE("/rooms/:id", hostelAdminHandler.DeleteRoom)

		hostelAdmin.GET("/staff", hostelAdminHandler.ListStaff)
		hostelAdmin.POST("/staff", hostelAdminHandler.CreateStaff)
		hostelAdmin.PATCH("/staff/:id", hostelAdminHandler.UpdateStaff)
		hostelAdmin.DELETE("/staff/:id", hostelAdminHandler.DeleteStaff)
		hostelAdmin.POST("/staff/resend-invitation", hostelAdminHandler.ResendStaffInvitation)

		hostelAdmin.GET("/devices", hostelAdminHandler.ListDevices)
		hostelAdmin.POST("/devices", hostelAdminHandler.CreateDevice)
		hostelAdmin.PATCH("/devices", hostelAdminHandler.UpdateDevice)
		hostelAdmin.DELETE("/devices", hostelAdminHandler.DeleteDevice)
		hostelAdmin.POST("/devices/test-connection", hostelAdminHandler.TestConnection)
	}

	// Staff routes (staff and warden; hostel-admin may manage students too)
	staff := r.Group("/staff")
	staff.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleStaff, models.RoleWarden, models.RoleHostelAdmin))
	{
		staff.GET("/students", staffHandler.ListStudents)
		staff.POST("/students", staffHandler.CreateStudent)
		staff.GET("/students/:id", staffHandler.GetStudent)
		staff.PATCH("/students/:id", staffHandler.UpdateStudent)
		staff.DELETE("/students/:id", staffHandler.DeleteStudent)
		staff.POST("/students/resend-invitation", staffHandler.ResendStudentInvitation)

		staff.GET("/rooms", staffHandler.ListRooms)
		staff.GET("/rooms/vacant", staffHandler.VacantRooms)
		staff.GET("/allocation-history", staffHandler.AllocationHistory)
		staff.POST("/change-password", staffHandler.ChangePassword)
	}

	// Warden routes. The roster attendance view is readable by staff as
	// well; alerts and the auto-send configuration stay warden-level.
	warden := r.Group("/warden")
	warden.Use(middleware.RequireAuth())
	{
		warden.GET("/attendance",
			middleware.RequireRoles(models.RoleStaff, models.RoleWarden, models.RoleHostelAdmin),
			wardenHandler.Attendance)

		wardenOnly := warden.Group("")
		wardenOnly.Use(middleware.RequireRoles(models.RoleWarden, models.RoleHostelAdmin))
		{
			wardenOnly.POST("/alerts/whatsapp", wardenHandler.SendCurfewAlerts)
			wardenOnly.GET("/auto-send-toggle", wardenHandler.GetAutoSend)
			wardenOnly.POST("/auto-send-toggle", wardenHandler.SetAutoSend)
		}
	}

	// Student routes (self-scoped)
	student := r.Group("/student")
	student.Use(middleware.RequireAuth(), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/profile", studentHandler.Profile)
		student.GET("/room", studentHandler.Room)
		student.GET("/attendance", studentHandler.Attendance)
		student.POST("/change-password", studentHandler.ChangePassword)
	}

	// 10. Setup graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Server exited")
}
