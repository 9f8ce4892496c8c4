package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-kit/log"
	converter "go-currency-converter"
	"go-currency-converter/exchange"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service exchange.Service
	Logger  log.Logger
	router  *http.ServeMux
}

func NewServer(s exchange.Service, logger log.Logger) *Server {
	server := &Server{
		Service: s,
		Logger:  logger,
		router:  http.NewServeMux(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Handle("POST /api/convert", s.convert())
	s.router.Handle("POST /api/convert/target", s.convertToTarget())
	s.router.Handle("POST /api/rates", s.setRate())
	s.router.Handle("POST /api/rates/refresh", s.refresh())
	s.router.Handle("GET /api/currencies", s.currencies())
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// response for marshalling conversion results returned to clients
type conversion struct {
	Exchange converter.Rate   `json:"exchange"`
	Amount   converter.Amount `json:"amount"`
	Original converter.Amount `json:"original"`
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		FromCurrency converter.Currency
		ToCurrency   converter.Currency
		Amount       converter.Amount
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		var req request
		if !s.decode(rw, r, &req) {
			return
		}

		result, err := s.Service.Convert(r.Context(), req.Amount, req.FromCurrency, req.ToCurrency)
		if err != nil {
			s.fail(rw, err, "failed conversion")
			return
		}

		s.encode(rw, conversion{
			Exchange: result.Rate,
			Amount:   result.Amount,
			Original: req.Amount,
		})
	}
}

// convertToTarget produces HTTP handler for conversions into the configured target currency
func (s *Server) convertToTarget() http.HandlerFunc {
	type request struct {
		FromCurrency converter.Currency
		Amount       converter.Amount
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		var req request
		if !s.decode(rw, r, &req) {
			return
		}

		result, err := s.Service.ConvertToTarget(r.Context(), req.Amount, req.FromCurrency)
		if err != nil {
			s.fail(rw, err, "failed conversion")
			return
		}

		s.encode(rw, conversion{
			Exchange: result.Rate,
			Amount:   result.Amount,
			Original: req.Amount,
		})
	}
}

// setRate produces HTTP handler recording a direct exchange rate
func (s *Server) setRate() http.HandlerFunc {
	type request struct {
		FromCurrency converter.Currency
		ToCurrency   converter.Currency
		Rate         converter.Rate
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		var req request
		if !s.decode(rw, r, &req) {
			return
		}

		err := s.Service.SetExchangeRate(r.Context(), req.FromCurrency, req.ToCurrency, req.Rate)
		if err != nil {
			s.fail(rw, err, "invalid exchange rate")
			return
		}
		rw.WriteHeader(http.StatusNoContent)
	}
}

// refresh produces HTTP handler triggering an automatic rate update
func (s *Server) refresh() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		err := s.Service.UpdateRatesAutomatically(r.Context())
		if err != nil {
			s.fail(rw, err, "failed rate update")
			return
		}
		rw.WriteHeader(http.StatusNoContent)
	}
}

// currencies produces HTTP handler listing supported currencies
func (s *Server) currencies() http.HandlerFunc {
	type response struct {
		Currencies []converter.Currency `json:"currencies"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		codes := s.Service.SupportedCurrencies(r.Context())
		if codes == nil {
			codes = []converter.Currency{}
		}
		s.encode(rw, response{Currencies: codes})
	}
}

// decode reads a JSON request body into v, writing an error response on failure
func (s *Server) decode(rw http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()

	bytes, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(rw, http.StatusBadRequest, "invalid request")
		return false
	}

	err = json.Unmarshal(bytes, v)
	if err != nil {
		writeError(rw, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func (s *Server) encode(rw http.ResponseWriter, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(rw)
	err := enc.Encode(v)
	if err != nil {
		s.Logger.Log("msg", "failed json encoding", "err", err)
	}
}

// fail maps service errors to status codes
func (s *Server) fail(rw http.ResponseWriter, err error, msg string) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, converter.ErrPrecondition):
		status = http.StatusBadRequest
	case errors.Is(err, converter.ErrUnsupported):
		status = http.StatusNotImplemented
	default:
		s.Logger.Log("msg", msg, "err", err)
	}
	writeError(rw, status, msg)
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(map[string]string{"error": msg})
}
