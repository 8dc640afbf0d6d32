package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

type APIServer struct {
	listenAddr string
	catalog    Catalog
	auth       *AuthProvider
	newStorage func(sessionID string) (Storage, error)

	// loaded once at startup; a failed load leaves them empty
	products   []Product
	categories []Category

	mu       sync.Mutex
	storages map[string]Storage
	carts    map[string]*CartStore
}

func NewAPIServer(listenAddr string, catalog Catalog, auth *AuthProvider, newStorage func(string) (Storage, error)) *APIServer {
	return &APIServer{
		listenAddr: listenAddr,
		catalog:    catalog,
		auth:       auth,
		newStorage: newStorage,
		storages:   make(map[string]Storage),
		carts:      make(map[string]*CartStore),
	}
}

func (s *APIServer) Run() error {
	s.loadCatalog()
	log.Println("JSON API server running on", s.listenAddr)
	return http.ListenAndServe(s.listenAddr, s.routes())
}

func (s *APIServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", makeHTTPHandleFunc(s.handleProducts))
	mux.HandleFunc("GET /products/featured", makeHTTPHandleFunc(s.handleFeatured))
	mux.HandleFunc("GET /product/{id}", makeHTTPHandleFunc(s.handleProductByID))
	mux.HandleFunc("GET /categories", makeHTTPHandleFunc(s.handleCategories))
	mux.HandleFunc("GET /search/{key}", makeHTTPHandleFunc(s.handleSearch))

	mux.HandleFunc("POST /register", makeHTTPHandleFunc(s.handleRegister))
	mux.HandleFunc("POST /login", makeHTTPHandleFunc(s.handleLogin))
	mux.HandleFunc("POST /logout", s.withJWTauth(makeHTTPHandleFunc(s.handleLogout)))

	mux.HandleFunc("GET /cart", s.withJWTauth(makeHTTPHandleFunc(s.handleCart)))
	mux.HandleFunc("DELETE /cart", s.withJWTauth(makeHTTPHandleFunc(s.handleCartClear)))
	mux.HandleFunc("POST /cart/{action}/{id}", s.withJWTauth(makeHTTPHandleFunc(s.handleCartActions)))

	// CORS preflight for everything above
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, r *http.Request) {
		enableCors(w)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// loadCatalog is the one async boundary: a single, non-cancellable load that
// either fills the product list or logs and leaves it empty. The server
// keeps running either way.
func (s *APIServer) loadCatalog() {
	products, err := s.catalog.Products()
	if err != nil {
		log.Printf("catalog load failed, serving empty catalog: %v", err)
		return
	}
	categories, err := s.catalog.Categories()
	if err != nil {
		log.Printf("category load failed: %v", err)
	}
	s.products = products
	s.categories = categories
}

// storageFor hands back the client storage for one session, creating it on
// first use. Each session owns its own copy; nothing is shared.
func (s *APIServer) storageFor(email string) (Storage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.storages[email]; ok {
		return st, nil
	}
	st, err := s.newStorage(email)
	if err != nil {
		return nil, err
	}
	s.storages[email] = st
	return st, nil
}

func (s *APIServer) cartFor(email string) (*CartStore, error) {
	storage, err := s.storageFor(email)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[email]; ok {
		return c, nil
	}
	c, err := NewCartStore(storage)
	if err != nil {
		return nil, err
	}
	s.carts[email] = c
	return c, nil
}

func (s *APIServer) handleProducts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	f := DefaultFilters()
	f.Category = q.Get("category")
	f.Search = q.Get("search")
	if v := q.Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "min_price is not numeric"})
		}
		f.MinPrice = min
	}
	if v := q.Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "max_price is not numeric"})
		}
		f.MaxPrice = max
	}
	f.InStockOnly = q.Get("in_stock") == "true"
	if v := q.Get("sort"); v != "" {
		f.SortBy = v
	}
	page := 1
	if v := q.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "page is not a positive number"})
		}
		page = p
	}

	products, pagination := QueryProducts(s.products, f, page)
	return WriteJSON(w, http.StatusOK, struct {
		Success    bool       `json:"success"`
		Products   []Product  `json:"products"`
		Pagination Pagination `json:"pagination"`
	}{true, products, pagination})
}

func (s *APIServer) handleFeatured(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, http.StatusOK, struct {
		Success  bool      `json:"success"`
		Products []Product `json:"products"`
	}{true, FeaturedProducts(s.products, 6)})
}

func (s *APIServer) handleProductByID(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	for _, p := range s.products {
		if p.ID == id {
			return WriteJSON(w, http.StatusOK, p)
		}
	}
	return WriteJSON(w, http.StatusNotFound, ApiError{Error: "product not found"})
}

func (s *APIServer) handleCategories(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, http.StatusOK, struct {
		Success    bool       `json:"success"`
		Categories []Category `json:"categories"`
	}{true, s.categories})
}

func (s *APIServer) handleSearch(w http.ResponseWriter, r *http.Request) error {
	f := DefaultFilters()
	f.Search = r.PathValue("key")
	products, _ := QueryProducts(s.products, f, 1)
	return WriteJSON(w, http.StatusOK, products)
}

func (s *APIServer) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "bad json"})
	}
	if err := s.auth.Register(req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, ErrUserExists) {
			return WriteJSON(w, http.StatusBadRequest, ApiError{Error: err.Error()})
		}
		return err
	}
	return WriteJSON(w, http.StatusOK, User{Name: req.Name, Email: req.Email})
}

func (s *APIServer) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "bad json"})
	}
	// the token claim carries the normalized email, key storage the same way
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	storage, err := s.storageFor(req.Email)
	if err != nil {
		return err
	}
	token, err := s.auth.Login(req.Email, req.Password, storage)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return WriteJSON(w, http.StatusForbidden, ApiError{Error: err.Error()})
		}
		return err
	}
	u, _ := CurrentUser(storage)
	w.Header().Set("X-Authorization", token)
	return WriteJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}{token, u})
}

func (s *APIServer) handleLogout(w http.ResponseWriter, r *http.Request) error {
	email := r.Header.Get("email")
	storage, err := s.storageFor(email)
	if err != nil {
		return err
	}
	if err := Logout(storage); err != nil {
		return err
	}
	// drop the cached cart, its storage is gone
	s.mu.Lock()
	delete(s.carts, email)
	s.mu.Unlock()
	return WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{true})
}

func (s *APIServer) handleCart(w http.ResponseWriter, r *http.Request) error {
	cart, err := s.cartFor(r.Header.Get("email"))
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, struct {
		Success bool       `json:"success"`
		Items   []CartItem `json:"items"`
		Totals  Totals     `json:"totals"`
	}{true, cart.Items(), cart.Totals()})
}

func (s *APIServer) handleCartClear(w http.ResponseWriter, r *http.Request) error {
	cart, err := s.cartFor(r.Header.Get("email"))
	if err != nil {
		return err
	}
	if err := cart.Clear(); err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{true})
}

func (s *APIServer) handleCartActions(w http.ResponseWriter, r *http.Request) error {
	action := r.PathValue("action")
	id := r.PathValue("id")
	cart, err := s.cartFor(r.Header.Get("email"))
	if err != nil {
		return err
	}

	switch action {
	case "add":
		var product *Product
		for i := range s.products {
			if s.products[i].ID == id {
				product = &s.products[i]
				break
			}
		}
		if product == nil {
			return WriteJSON(w, http.StatusNotFound, ApiError{Error: "product not found"})
		}
		if err := cart.AddItem(*product); err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				return WriteJSON(w, http.StatusUnauthorized, ApiError{Error: err.Error()})
			}
			return err
		}
	case "delete":
		if err := cart.RemoveItem(id); err != nil {
			return err
		}
	case "update":
		qty, err := strconv.Atoi(r.URL.Query().Get("qty"))
		if err != nil {
			return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "qty is not a numeric value"})
		}
		if err := cart.UpdateQuantity(id, qty); err != nil {
			if errors.Is(err, ErrInvalidQuantity) {
				return WriteJSON(w, http.StatusBadRequest, ApiError{Error: err.Error()})
			}
			return err
		}
	default:
		return WriteJSON(w, http.StatusBadRequest, ApiError{Error: "action not supported"})
	}

	return WriteJSON(w, http.StatusOK, struct {
		Success bool       `json:"success"`
		Items   []CartItem `json:"items"`
		Totals  Totals     `json:"totals"`
	}{true, cart.Items(), cart.Totals()})
}

type APIfunc func(http.ResponseWriter, *http.Request) error

func makeHTTPHandleFunc(f APIfunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enableCors(w)
		if err := f(w, r); err != nil {
			WriteJSON(w, http.StatusInternalServerError, ApiError{Error: err.Error()})
		}
	}
}

// withJWTauth admits requests carrying a valid token in X-Authorization
// whose email claim matches the email header.
func (s *APIServer) withJWTauth(handleFunc http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enableCors(w)
		tokenString := r.Header.Get("X-Authorization")
		email, err := s.auth.ParseJWT(tokenString)
		if err != nil || email != r.Header.Get("email") {
			WriteJSON(w, http.StatusUnauthorized, ApiError{Error: "forbidden"})
			return
		}
		handleFunc(w, r)
	}
}

func enableCors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "DELETE, POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Authorization, email")
}

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

type ApiError struct {
	Error string `json:"error"`
}
