// Package fakebooker is an in-memory implementation of the booking API, for running the
// contract tests without a real deployment. Its deviations from the contract can be switched on
// one at a time, to see how the test suite reacts to each kind of defect.
package fakebooker

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/restful-booker/booking-contract-tests/servicedef"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Options configures the fake service. A zero status means the conforming behavior.
type Options struct {
	Username string
	Password string

	// MissingFieldsStatus is returned by create when firstname or lastname is missing. If it
	// is 200, the booking is created anyway.
	MissingFieldsStatus int

	// WrongTypeStatus is returned by create when a field has the wrong JSON type. If it is 200,
	// the booking is created with that field zeroed.
	WrongTypeStatus int

	// UpdateMissingStatus is returned by a full update of an id that does not exist. If it is
	// 200, the update creates the booking.
	UpdateMissingStatus int

	// UnauthorizedDeleteStatus is returned by a delete without a valid token. If it is a 2xx
	// status, the booking really is deleted.
	UnauthorizedDeleteStatus int

	// PatchResetsTotalPrice makes a partial update clear totalprice even if it was not sent.
	PatchResetsTotalPrice bool

	// Logger receives one entry per request. If nil, nothing is logged.
	Logger *zap.Logger
}

const (
	defaultUsername = "admin"
	defaultPassword = "password123"
)

// Service holds the bookings and tokens of one fake instance.
type Service struct {
	opts     Options
	bookings map[int]servicedef.Booking
	tokens   map[string]bool
	lastID   int
	authReqs int
	lock     sync.Mutex
}

type patchBody struct {
	FirstName       *string `json:"firstname"`
	LastName        *string `json:"lastname"`
	TotalPrice      *int    `json:"totalprice"`
	DepositPaid     *bool   `json:"depositpaid"`
	AdditionalNeeds *string `json:"additionalneeds"`
}

func New(opts Options) *Service {
	if opts.Username == "" {
		opts.Username = defaultUsername
	}
	if opts.Password == "" {
		opts.Password = defaultPassword
	}
	return &Service{
		opts:     opts,
		bookings: make(map[int]servicedef.Booking),
		tokens:   make(map[string]bool),
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.opts.Logger != nil {
		r.Use(requestLogger(s.opts.Logger))
	}
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusCreated, "Created") })
	r.POST("/auth", s.authenticate)

	booking := r.Group("/booking")
	{
		booking.POST("", s.createBooking)
		booking.GET("/:id", s.getBooking)
		booking.PUT("/:id", s.updateBooking)
		booking.PATCH("/:id", s.patchBooking)
		booking.DELETE("/:id", s.deleteBooking)
	}
	return r
}

// AuthRequestCount returns how many credential exchanges were attempted.
func (s *Service) AuthRequestCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.authReqs
}

// BookingCount returns how many bookings currently exist.
func (s *Service) BookingCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.bookings)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("requestId", c.GetHeader("X-Request-Id")),
		)
	}
}

func (s *Service) authenticate(c *gin.Context) {
	var params servicedef.AuthParams
	s.lock.Lock()
	s.authReqs++
	s.lock.Unlock()
	if err := c.ShouldBindJSON(&params); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if params.Username != s.opts.Username || params.Password != s.opts.Password {
		// the real service reports bad credentials with a success status
		c.JSON(http.StatusOK, servicedef.AuthResponse{Reason: "Bad credentials"})
		return
	}
	token := uuid.NewString()
	s.lock.Lock()
	s.tokens[token] = true
	s.lock.Unlock()
	c.JSON(http.StatusOK, servicedef.AuthResponse{Token: token})
}

func (s *Service) createBooking(c *gin.Context) {
	b, status := s.parseBooking(c)
	if status != http.StatusOK {
		c.Status(status)
		return
	}
	s.lock.Lock()
	s.lastID++
	id := s.lastID
	s.bookings[id] = b
	s.lock.Unlock()
	c.JSON(http.StatusOK, servicedef.CreatedBooking{BookingID: ldvalue.NewOptionalInt(id), Booking: b})
}

func (s *Service) getBooking(c *gin.Context) {
	b, _, ok := s.lookup(c)
	if !ok {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Service) updateBooking(c *gin.Context) {
	if !s.isAuthorized(c) {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	_, id, ok := s.lookup(c)
	if missingStatus := orDefault(s.opts.UpdateMissingStatus, http.StatusMethodNotAllowed); !ok && missingStatus != http.StatusOK {
		c.String(missingStatus, http.StatusText(missingStatus))
		return
	}
	b, status := s.parseBooking(c)
	if status != http.StatusOK {
		c.Status(status)
		return
	}
	s.lock.Lock()
	s.bookings[id] = b
	s.lock.Unlock()
	c.JSON(http.StatusOK, b)
}

func (s *Service) patchBooking(c *gin.Context) {
	if !s.isAuthorized(c) {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	b, id, ok := s.lookup(c)
	if !ok {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	var p patchBody
	if err := c.ShouldBindJSON(&p); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if p.FirstName != nil {
		b.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		b.LastName = *p.LastName
	}
	if p.TotalPrice != nil {
		b.TotalPrice = *p.TotalPrice
	} else if s.opts.PatchResetsTotalPrice {
		b.TotalPrice = 0
	}
	if p.DepositPaid != nil {
		b.DepositPaid = *p.DepositPaid
	}
	if p.AdditionalNeeds != nil {
		b.AdditionalNeeds = ldvalue.NewOptionalString(*p.AdditionalNeeds)
	}
	s.lock.Lock()
	s.bookings[id] = b
	s.lock.Unlock()
	c.JSON(http.StatusOK, b)
}

func (s *Service) deleteBooking(c *gin.Context) {
	if !s.isAuthorized(c) {
		status := orDefault(s.opts.UnauthorizedDeleteStatus, http.StatusForbidden)
		if status < 200 || status >= 300 {
			c.String(status, http.StatusText(status))
			return
		}
		s.remove(c)
		c.String(status, http.StatusText(status))
		return
	}
	if !s.remove(c) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	c.String(http.StatusCreated, "Created")
}

func (s *Service) remove(c *gin.Context) bool {
	_, id, ok := s.lookup(c)
	if ok {
		s.lock.Lock()
		delete(s.bookings, id)
		s.lock.Unlock()
	}
	return ok
}

func (s *Service) lookup(c *gin.Context) (servicedef.Booking, int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return servicedef.Booking{}, 0, false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	b, ok := s.bookings[id]
	return b, id, ok
}

func (s *Service) isAuthorized(c *gin.Context) bool {
	token, err := c.Cookie(servicedef.TokenCookieName)
	if err != nil {
		return false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.tokens[token]
}

// parseBooking validates a create or update body, returning the status that the configured
// behavior calls for. Anything other than 200 means the request is rejected.
func (s *Service) parseBooking(c *gin.Context) (servicedef.Booking, int) {
	data, err := c.GetRawData()
	if err != nil {
		return servicedef.Booking{}, http.StatusBadRequest
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return servicedef.Booking{}, http.StatusBadRequest
	}
	_, hasFirst := fields["firstname"]
	_, hasLast := fields["lastname"]
	if !hasFirst || !hasLast {
		if status := orDefault(s.opts.MissingFieldsStatus, http.StatusBadRequest); status != http.StatusOK {
			return servicedef.Booking{}, status
		}
	}
	var b servicedef.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		status := orDefault(s.opts.WrongTypeStatus, http.StatusBadRequest)
		if status != http.StatusOK {
			return servicedef.Booking{}, status
		}
		// keep whatever did decode; the mistyped field stays zero
		b = lenientDecode(fields)
	}
	return b, http.StatusOK
}

func lenientDecode(fields map[string]json.RawMessage) servicedef.Booking {
	var b servicedef.Booking
	_ = json.Unmarshal(fields["firstname"], &b.FirstName)
	_ = json.Unmarshal(fields["lastname"], &b.LastName)
	_ = json.Unmarshal(fields["totalprice"], &b.TotalPrice)
	_ = json.Unmarshal(fields["depositpaid"], &b.DepositPaid)
	_ = json.Unmarshal(fields["bookingdates"], &b.BookingDates)
	_ = json.Unmarshal(fields["additionalneeds"], &b.AdditionalNeeds)
	return b
}

func orDefault(status, defaultStatus int) int {
	if status == 0 {
		return defaultStatus
	}
	return status
}
