package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kvbsystems/kvbbackend/controllers"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/middleware"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/notify"
	"github.com/kvbsystems/kvbbackend/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	//seeding admin user
	ctx := context.Background()
	adminsCol := database.OpenCollection("admins")
	if err := utils.SeedAdminUser(ctx, adminsCol); err != nil {
		log.Fatal(err)
	}
	defer database.Disconnect(context.Background())

	mailer, err := notify.NewSMTPMailerFromEnv()
	if err != nil {
		log.Fatal("smtp config: ", err)
	}
	dispatcher := notify.NewDispatcher(mailer, 64)
	defer dispatcher.Close()

	r := gin.New()
	v := utils.NewPDFOrImageValidator()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	log.Printf("Allowed origins: %v", allowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// public catalogue
	r.GET("/products", controllers.GetProducts())
	r.GET("/products/:id", controllers.GetProduct())

	// auth, one login surface per role
	r.POST("/auth/admin/login", controllers.Login(models.RoleAdmin))
	r.POST("/auth/sales/login", controllers.Login(models.RoleSales))
	r.POST("/auth/worker/login", controllers.Login(models.RoleWorker))
	r.POST("/auth/customer/login", controllers.Login(models.RoleCustomer))
	r.POST("/auth/customer/register", controllers.RegisterCustomer())
	r.POST("/auth/refresh", controllers.Refresh())

	r.POST("/auth/admin/logout", controllers.Logout(models.RoleAdmin))
	r.POST("/auth/sales/logout", controllers.Logout(models.RoleSales))
	r.POST("/auth/worker/logout", controllers.Logout(models.RoleWorker))
	r.POST("/auth/customer/logout", controllers.Logout(models.RoleCustomer))

	r.POST("/auth/admin/me/password", middleware.AuthMiddleware(models.RoleAdmin), controllers.ChangeMyPassword(models.RoleAdmin))
	r.POST("/auth/sales/me/password", middleware.AuthMiddleware(models.RoleSales), controllers.ChangeMyPassword(models.RoleSales))
	r.POST("/auth/worker/me/password", middleware.AuthMiddleware(models.RoleWorker), controllers.ChangeMyPassword(models.RoleWorker))
	r.POST("/auth/customer/me/password", middleware.AuthMiddleware(models.RoleCustomer), controllers.ChangeMyPassword(models.RoleCustomer))

	sales := r.Group("/api/sales")
	sales.Use(middleware.AuthMiddleware(models.RoleSales))
	{
		sales.POST("/leads", controllers.CreateLead())
		sales.GET("/leads", controllers.GetLeads())
		sales.GET("/leads/:id", controllers.GetLead())
		sales.PUT("/leads/:id", controllers.UpdateLead(dispatcher))
		sales.POST("/leads/:id/notes", controllers.AddLeadNote())
		sales.POST("/leads/:id/convert", controllers.ConvertLead())
		sales.DELETE("/leads/:id", controllers.DeleteLead())

		sales.POST("/quotations", controllers.CreateQuotation())
		sales.GET("/quotations", controllers.GetQuotations())
		sales.GET("/quotations/:id", controllers.GetQuotation())
		sales.PUT("/quotations/:id", controllers.UpdateQuotation(dispatcher))
		sales.POST("/quotations/:id/pdf", controllers.SendQuotationPDF(dispatcher))
	}

	worker := r.Group("/api/tasks")
	worker.Use(middleware.AuthMiddleware(models.RoleWorker))
	{
		worker.GET("/worker/assigned", controllers.GetAssignedTasks())
		worker.PUT("/worker/update-status/:taskId", controllers.UpdateTaskStatus(dispatcher))
		worker.POST("/:taskId/comments", controllers.AddTaskComment())
		worker.POST("/:taskId/upload", controllers.UploadTaskAttachments(v))
	}

	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthMiddleware(models.RoleCustomer))
	{
		customer.POST("/quotations", controllers.RequestQuotation())
		customer.GET("/quotations", controllers.GetMyQuotations())
		customer.POST("/enquiries", controllers.CreateEnquiry(v))
		customer.GET("/enquiries", controllers.GetMyEnquiries())
		customer.GET("/profile", controllers.GetMyProfile(models.RoleCustomer))
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(models.RoleAdmin))
	{
		admin.GET("/products", controllers.GetProductsAdmin())
		admin.POST("/products", controllers.AddProduct())
		admin.PUT("/products/:id", controllers.UpdateProduct())
		admin.DELETE("/products/:id", controllers.DeleteProduct())

		admin.POST("/tasks", controllers.CreateTask(dispatcher))
		admin.GET("/tasks", controllers.GetTasks())
		admin.GET("/tasks/:id", controllers.GetTask())
		admin.PUT("/tasks/:id", controllers.UpdateTask())
		admin.PUT("/tasks/:id/assign", controllers.AssignTask(dispatcher))
		admin.DELETE("/tasks/:id", controllers.DeleteTask())

		admin.GET("/enquiries", controllers.GetEnquiries())
		admin.PUT("/enquiries/:id/status", controllers.UpdateEnquiryStatus())

		// read-only oversight of the sales pipeline, plus the same
		// quotation update surface sales has
		admin.GET("/leads", controllers.GetLeads())
		admin.GET("/leads/:id", controllers.GetLead())
		admin.GET("/quotations", controllers.GetQuotations())
		admin.GET("/quotations/:id", controllers.GetQuotation())
		admin.PUT("/quotations/:id", controllers.UpdateQuotation(dispatcher))

		admin.GET("/customers", controllers.GetCustomers())
		admin.GET("/customers/:id", controllers.GetCustomer())
		admin.POST("/customers", controllers.CreateCustomer())
		admin.PUT("/customers/:id", controllers.UpdateCustomer())
		admin.DELETE("/customers/:id", controllers.DeleteCustomer())

		admin.GET("/workers", controllers.GetWorkers())
		admin.GET("/workers/:id", controllers.GetWorker())
		admin.POST("/workers", controllers.CreateWorker())
		admin.PUT("/workers/:id", controllers.UpdateWorker())
		admin.DELETE("/workers/:id", controllers.DeleteWorker())

		admin.GET("/sales", controllers.GetSalesUsers())
		admin.GET("/sales/:id", controllers.GetSalesUser())
		admin.POST("/sales", controllers.CreateSalesUser())
		admin.PUT("/sales/:id", controllers.UpdateSalesUser())
		admin.DELETE("/sales/:id", controllers.DeleteSalesUser())

		admin.GET("/export/:type", controllers.ExportData())
		admin.POST("/bulk-import/products", controllers.ImportProducts())
		admin.POST("/bulk-import/customers", controllers.ImportCustomers())
		admin.POST("/bulk-import/tasks", controllers.ImportTasks())
	}

	// Server listens on 0.0.0.0:8080 unless PORT is set
	r.Run()
}
