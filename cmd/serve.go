package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/tabgenius/tabgenius/archive"
	"github.com/tabgenius/tabgenius/audio"
	"github.com/tabgenius/tabgenius/constants"
	"github.com/tabgenius/tabgenius/export"
	"github.com/tabgenius/tabgenius/melody"
	"github.com/tabgenius/tabgenius/midi"
	"github.com/tabgenius/tabgenius/model"
	"github.com/tabgenius/tabgenius/prompt"
	"github.com/tabgenius/tabgenius/tablature"
	"github.com/tabgenius/tabgenius/user"
)

var store *user.Store

type sessionStore struct {
	mu sync.Mutex
	m  map[string]*user.Account
}

var sessions = sessionStore{m: make(map[string]*user.Account)}

func (s *sessionStore) add(acc *user.Account) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.m[token] = acc
	s.mu.Unlock()
	return token
}

func (s *sessionStore) get(token string) *user.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[token]
}

// Generation activity gets summarized in one log line once a burst settles,
// instead of a line per request.
var (
	generationMu    sync.Mutex
	generationCount int
	summarize       = debounce.New(2 * time.Second)
)

func noteGeneration() {
	generationMu.Lock()
	generationCount++
	n := generationCount
	generationMu.Unlock()
	summarize(func() {
		log.Printf("served %v generations since start", n)
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API",
	Long:  `Runs the HTTP API`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// LoadServeStore opens the user store serve handlers depend on.
func LoadServeStore() {
	var err error
	store, err = user.NewStore(constants.GetDBPath())
	if err != nil {
		log.Fatal("Could not open user store: " + err.Error())
	}
}

func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/signup", HandleSignup).Methods("POST")
	router.HandleFunc("/login", HandleLogin).Methods("POST")
	router.HandleFunc("/pricing", HandlePricing).Methods("GET")
	router.HandleFunc("/usage", HandleUsage).Methods("GET")
	router.HandleFunc("/generate/text", HandleGenerateText).Methods("POST")
	router.HandleFunc("/generate/midi", HandleGenerateMidi).Methods("POST")
	router.HandleFunc("/generate/audio", HandleGenerateAudio).Methods("POST")
	router.HandleFunc("/export", HandleExport).Methods("POST")
	return router
}

func serve() {
	LoadServeStore()
	handler := cors.Default().Handler(NewRouter())
	fmt.Printf("Listening on %v\n", constants.GetListenAddr())
	log.Fatal(http.ListenAndServe(constants.GetListenAddr(), handler))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// authedAccount resolves the bearer token to an account, writing a 401 and
// returning nil when it can't.
func authedAccount(w http.ResponseWriter, r *http.Request) *user.Account {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return nil
	}
	acc := sessions.get(token)
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return nil
	}
	return acc
}

func underQuota(w http.ResponseWriter, acc *user.Account) bool {
	ok, err := store.CanGenerate(acc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not check quota")
		return false
	}
	if !ok {
		writeError(w, http.StatusPaymentRequired, "Monthly generation limit reached")
		return false
	}
	return true
}

func logUsage(acc *user.Account, generationType string) {
	if err := store.LogUsage(acc.ID, generationType); err != nil {
		log.Printf("could not log %v usage for %v: %v", generationType, acc.Email, err)
	}
	noteGeneration()
}

func HandleSignup(w http.ResponseWriter, r *http.Request) {
	var input model.SignupRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body")
		return
	}
	if input.Email == "" || input.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	err := store.Create(input.Email, input.Password)
	if errors.Is(err, user.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email already exists!")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input model.LoginRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body")
		return
	}

	acc, err := store.Authenticate(input.Email, input.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: sessions.add(acc), Tier: acc.Tier})
}

var pricingTiers = []model.PricingTier{
	{
		Name:         constants.TierFree,
		Price:        "$0/month",
		MonthlyLimit: constants.MonthlyLimit(constants.TierFree),
		Features:     []string{"100 generations per month", "All input types"},
	},
	{
		Name:         constants.TierOne,
		Price:        "$9/month",
		MonthlyLimit: constants.MonthlyLimit(constants.TierOne),
		Features:     []string{"500 generations per month", "All input types", "Tab export"},
	},
	{
		Name:         constants.TierUnlimited,
		Price:        "$19/month",
		MonthlyLimit: constants.MonthlyLimit(constants.TierUnlimited),
		Features:     []string{"Unlimited generations", "All input types", "Tab export"},
	},
}

func HandlePricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pricingTiers)
}

func HandleUsage(w http.ResponseWriter, r *http.Request) {
	acc := authedAccount(w, r)
	if acc == nil {
		return
	}

	month := user.CurrentMonth()
	used, err := store.UsageCount(acc.ID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read usage")
		return
	}
	writeJSON(w, http.StatusOK, model.UsageResponse{
		Used:  used,
		Limit: constants.MonthlyLimit(acc.Tier),
		Month: month,
	})
}

func HandleGenerateText(w http.ResponseWriter, r *http.Request) {
	acc := authedAccount(w, r)
	if acc == nil || !underQuota(w, acc) {
		return
	}

	var input model.GenerateTextRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body")
		return
	}
	if input.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if input.Measures <= 0 {
		input.Measures = 4
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	info := prompt.Interpret(input.Prompt, rng)
	notes := melody.Generate(info, input.Measures, rng)
	tab := tablature.RenderLabeled(tablature.Standard, melody.Pitches(notes))

	logUsage(acc, "text")
	writeJSON(w, http.StatusOK, model.TabResponse{Tab: tab, MusicInfo: &info})
}

// saveUpload copies the "file" form part to a temp path that keeps the
// upload's extension, which the audio tooling relies on.
func saveUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return "", err
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, f); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func HandleGenerateMidi(w http.ResponseWriter, r *http.Request) {
	acc := authedAccount(w, r)
	if acc == nil || !underQuota(w, acc) {
		return
	}

	path, err := saveUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer os.Remove(path)

	s, err := midi.ReadMidiFile(path)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// a valid file with zero notes is a success; the tab is the sentinel
	notes := midi.ExtractNotes(s, constants.MaxMidiNotes)
	tab := tablature.RenderLabeled(tablature.Standard, notes)

	logUsage(acc, "midi")
	writeJSON(w, http.StatusOK, model.TabResponse{Tab: tab})
}

func HandleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	acc := authedAccount(w, r)
	if acc == nil || !underQuota(w, acc) {
		return
	}

	path, err := saveUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer os.Remove(path)

	notes, err := audio.ExtractNotes(path)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tab := tablature.RenderLabeled(tablature.Standard, notes)

	logUsage(acc, "audio")
	writeJSON(w, http.StatusOK, model.TabResponse{Tab: tab})
}

func HandleExport(w http.ResponseWriter, r *http.Request) {
	acc := authedAccount(w, r)
	if acc == nil {
		return
	}

	var input model.ExportRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body")
		return
	}
	if input.Tab == "" {
		writeError(w, http.StatusBadRequest, "tab is required")
		return
	}

	content := export.Format(input.Tab, input.MusicInfo)

	if bucket := constants.GetArchiveBucket(); bucket != "" {
		key := uuid.New().String() + ".txt"
		if err := archive.Upload(bucket, key, []byte(content)); err != nil {
			log.Printf("archive failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", `attachment; filename="guitar_tab.txt"`)
	w.Write([]byte(content))
}
