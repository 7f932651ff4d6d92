package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/config"
	_ "github.com/admusproduccion/admus-server/docs"
	"github.com/admusproduccion/admus-server/service/assignment"
	"github.com/admusproduccion/admus-server/service/availability"
	"github.com/admusproduccion/admus-server/service/company"
	"github.com/admusproduccion/admus-server/service/dashboard"
	"github.com/admusproduccion/admus-server/service/events"
	"github.com/admusproduccion/admus-server/service/influencer"
	"github.com/admusproduccion/admus-server/service/links"
	"github.com/admusproduccion/admus-server/service/notify"
	"github.com/admusproduccion/admus-server/service/packages"
	"github.com/admusproduccion/admus-server/service/tasks"
	"github.com/admusproduccion/admus-server/service/user"
	"github.com/admusproduccion/admus-server/service/week"
	"github.com/admusproduccion/admus-server/service/ws"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/swaggo/swag"
	"gorm.io/gorm"
)

type APIServer struct {
	cfg    *config.Config
	db     *gorm.DB
	cache  *redis.Client
	hub    *ws.Hub
	mailer *notify.Mailer
	auth   *utils.Authenticator
}

func NewApiServer(cfg *config.Config, db *gorm.DB, cache *redis.Client) *APIServer {
	ttl := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	return &APIServer{
		cfg:   cfg,
		db:    db,
		cache: cache,
		hub:   ws.NewHub(),
		mailer: notify.NewSMTPMailer(db,
			cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From),
		auth: utils.NewAuthenticator(db, cache, cfg.Auth.SecretKey, ttl),
	}
}

func (s *APIServer) notifier() events.Notifier {
	notifiers := events.Multi{s.hub}
	if s.mailer != nil {
		notifiers = append(notifiers, s.mailer)
	}
	return notifiers
}

// Handler builds the full route tree. Everything except login, logos,
// metrics and the API document requires a bearer token.
func (s *APIServer) Handler() http.Handler {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	notifier := s.notifier()

	userHandler := user.NewHandler(s.db, s.auth)
	userHandler.RegisterPublicRoutes(subrouter)

	companyHandler := company.NewCompanyHandler(s.db, s.cfg.Uploads.Dir)
	companyHandler.RegisterPublicRoutes(subrouter)

	subrouter.Handle("/metrics", promhttp.Handler()).Methods("GET")
	subrouter.HandleFunc("/swagger/doc.json", serveSwagger).Methods("GET")

	protected := subrouter.NewRoute().Subrouter()
	protected.Use(s.auth.Middleware)

	userHandler.RegisterRoutes(protected)
	companyHandler.RegisterRoutes(protected)

	store := availability.NewStore(s.db)
	availabilityHandler := availability.NewAvailabilityHandler(store, notifier)
	availabilityHandler.RegisterRoutes(protected)

	engine := assignment.NewEngine(s.db, notifier, assignment.Options{
		RejectDoubleBooking: s.cfg.Schedule.RejectDoubleBooking,
	})
	assignmentHandler := assignment.NewAssignmentHandler(s.db, engine)
	assignmentHandler.RegisterRoutes(protected)

	influencerHandler := influencer.NewInfluencerHandler(influencer.NewDirectory(s.db))
	influencerHandler.RegisterRoutes(protected)

	weekHandler := week.NewWeekHandler(s.db, week.NewComposer(s.db))
	weekHandler.RegisterRoutes(protected)

	taskHandler := tasks.NewTaskHandler(s.db, tasks.NewCalendarService(s.db))
	taskHandler.RegisterRoutes(protected)

	linkHandler := links.NewLinkHandler(s.db)
	linkHandler.RegisterRoutes(protected)

	packageHandler := packages.NewPackageHandler(s.db)
	packageHandler.RegisterRoutes(protected)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(protected)

	wsHandler := ws.NewHandler(s.hub, s.cfg.Server.AllowedOrigins)
	wsHandler.RegisterRoutes(protected)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	return handlers.CombinedLoggingHandler(os.Stdout, cors(router))
}

func serveSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *APIServer) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.hub.Run(hubCtx)

	server := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("Server running at", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	stopHub()
	s.mailer.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
