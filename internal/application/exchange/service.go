package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/domain"
	"github.com/jhoicas/catalog-exchange/internal/domain/entity"
	"github.com/jhoicas/catalog-exchange/internal/domain/repository"
	"github.com/jhoicas/catalog-exchange/pkg/jwt"
)

// Códigos de resultado del protocolo (primera línea de la respuesta).
const (
	ResultSuccess = "SUCCESS"
	ResultError   = "ERROR"
	ResultPending = "PENDING"
)

// Mensajes de error del protocolo.
const (
	MsgInvalidMode        = "invalid mode"
	MsgInvalidFilename    = "invalid filename"
	MsgCompanyNotFound    = "company not found"
	MsgMissingCredentials = "missing credentials"
	MsgInvalidCredentials = "invalid credentials"
	MsgLoginFailed        = "login failed"
	MsgUnauthorized       = "unauthorized"
	MsgJobNotFound        = "job not found"
	MsgJobFailed          = "job failed"
	MsgServerError        = "server error"
	MsgQueueUnavailable   = "queue unavailable"
)

// Response respuesta del protocolo: líneas separadas por "\n", sin salto final.
type Response struct {
	Status int
	Lines  []string
	// Token sesión emitida por checkauth (el handler la envía también como cookie).
	Token string
}

// Body serializa las líneas.
func (r Response) Body() string {
	return strings.Join(r.Lines, "\n")
}

func reply(status int, lines ...string) Response {
	return Response{Status: status, Lines: lines}
}

func fail(status int, msg string) Response {
	return reply(status, ResultError, msg)
}

// Enqueuer recibe los jobs reclamados por import.
type Enqueuer interface {
	Enqueue(ctx context.Context, job *entity.ExchangeJob) error
}

// ServiceConfig parámetros del protocolo.
type ServiceConfig struct {
	FileLimit int64
	JWTSecret string
}

// Service máquina de estados del protocolo de intercambio con el ERP.
type Service struct {
	companies repository.CompanyRepository
	auth      Authenticator
	ledger    *Ledger
	queue     Enqueuer
	staging   Staging
	cfg       ServiceConfig
	log       zerolog.Logger
}

// NewService crea el servicio del protocolo.
func NewService(companies repository.CompanyRepository, auth Authenticator, ledger *Ledger, queue Enqueuer, staging Staging, cfg ServiceConfig, log zerolog.Logger) *Service {
	return &Service{
		companies: companies,
		auth:      auth,
		ledger:    ledger,
		queue:     queue,
		staging:   staging,
		cfg:       cfg,
		log:       log,
	}
}

// Init anuncia las capacidades del servidor; no tiene efectos ni consulta la empresa.
func (s *Service) Init() Response {
	return reply(http.StatusOK, "zip=no", fmt.Sprintf("file_limit=%d", s.cfg.FileLimit))
}

// CheckAuth intercambia las credenciales del ERP por un token de sesión de la empresa.
func (s *Service) CheckAuth(ctx context.Context, companyID, username, password string) Response {
	if username == "" || password == "" {
		return fail(http.StatusUnauthorized, MsgMissingCredentials)
	}
	session, err := s.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return fail(http.StatusUnauthorized, MsgInvalidCredentials)
		}
		s.log.Warn().Err(err).Str("company_id", companyID).Msg("checkauth: login rechazado")
		return fail(http.StatusBadRequest, MsgLoginFailed)
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return s.serverError(err, companyID, "checkauth")
	}
	// Empresa inexistente y usuario sin permisos responden igual.
	if company == nil || session.User.CompanyID != companyID || session.User.Role != entity.RoleAdmin {
		return fail(http.StatusNotFound, MsgCompanyNotFound)
	}
	resp := reply(http.StatusOK, ResultSuccess, session.Token)
	resp.Token = session.Token
	return resp
}

// Authorize comprueba que el token de sesión pertenece a un administrador de la empresa.
// Si no es así devuelve la respuesta de rechazo y false.
func (s *Service) Authorize(ctx context.Context, companyID, token string) (Response, bool) {
	if token == "" {
		return fail(http.StatusUnauthorized, MsgUnauthorized), false
	}
	sess, err := jwt.Parse(s.cfg.JWTSecret, token)
	if err != nil || sess.CompanyID != companyID || sess.Role != entity.RoleAdmin {
		return fail(http.StatusUnauthorized, MsgUnauthorized), false
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return s.serverError(err, companyID, "authorize"), false
	}
	if company == nil {
		return fail(http.StatusNotFound, MsgCompanyNotFound), false
	}
	return Response{}, true
}

// Upload guarda un trozo del archivo filename en staging. Si el último job del archivo sigue
// INACTIVE el trozo se añade al final; si no, el archivo se reescribe desde cero.
// Un documento de tipo conocido crea un job INACTIVE cuando no hay uno abierto.
func (s *Service) Upload(ctx context.Context, companyID, filename, locale string, body io.Reader) Response {
	path, err := s.staging.Path(companyID, filename)
	if err != nil {
		return fail(http.StatusBadRequest, MsgInvalidFilename)
	}
	latest, err := s.ledger.FindLatestByPath(ctx, companyID, path)
	if err != nil {
		return s.serverError(err, companyID, "upload")
	}
	appending := latest != nil && latest.Status == entity.JobInactive

	n, err := writeStaging(path, body, appending)
	if err != nil {
		return s.serverError(err, companyID, "upload")
	}

	if typ, ok := DocumentTypeFor(filename); ok && !appending {
		job, err := s.ledger.Create(ctx, companyID, path, typ, locale)
		if err != nil {
			return s.serverError(err, companyID, "upload")
		}
		s.log.Info().Str("company_id", companyID).Str("job_id", job.ID).Str("type", string(typ)).Msg("job registrado")
	}
	s.log.Debug().Str("company_id", companyID).Str("file", filename).Int64("bytes", n).Bool("append", appending).Msg("archivo recibido")
	return reply(http.StatusOK, ResultSuccess)
}

func writeStaging(path string, body io.Reader, appending bool) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("crear carpeta de staging: %w", err)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appending {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("abrir archivo de staging: %w", err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("escribir archivo de staging: %w", err)
	}
	return n, nil
}

// Import informa el estado del último job de filename; si sigue INACTIVE lo reclama y encola.
func (s *Service) Import(ctx context.Context, companyID, filename string) Response {
	name, err := CleanFilename(filename)
	if err != nil {
		return fail(http.StatusBadRequest, MsgInvalidFilename)
	}
	job, err := s.ledger.FindByFilename(ctx, companyID, name)
	if err != nil {
		return s.serverError(err, companyID, "import")
	}
	if job == nil {
		return fail(http.StatusOK, MsgJobNotFound)
	}

	switch job.Status {
	case entity.JobInactive:
		won, err := s.ledger.Claim(ctx, job.ID)
		if err != nil {
			return s.serverError(err, companyID, "import")
		}
		if won {
			if resp, ok := s.dispatch(ctx, job); !ok {
				return resp
			}
		}
		return reply(http.StatusOK, ResultPending)
	case entity.JobPending:
		return reply(http.StatusOK, ResultPending)
	case entity.JobSuccess:
		return reply(http.StatusOK, ResultSuccess)
	}
	msg := MsgJobFailed
	if len(job.Errors) > 0 && job.Errors[0] != "" {
		msg = strings.ReplaceAll(job.Errors[0], "\n", " ")
	}
	return fail(http.StatusOK, msg)
}

// dispatch aparta el archivo del job recién reclamado y lo encola. Si no puede encolarse, el
// job vuelve a INACTIVE y un import posterior lo reintenta.
func (s *Service) dispatch(ctx context.Context, job *entity.ExchangeJob) (Response, bool) {
	if err := s.staging.Seal(job); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if _, cerr := s.ledger.Complete(ctx, job.ID, entity.JobError, ErrStagingFileNotFound.Error()); cerr != nil {
				return s.serverError(cerr, job.CompanyID, "import"), false
			}
			return fail(http.StatusOK, ErrStagingFileNotFound.Error()), false
		}
		s.release(ctx, job, false)
		return s.serverError(err, job.CompanyID, "import"), false
	}
	job.Status = entity.JobPending
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.release(ctx, job, true)
		return s.serverError(err, job.CompanyID, "import"), false
	}
	return Response{}, true
}

// release deshace un reclamo que no llegó a la cola.
func (s *Service) release(ctx context.Context, job *entity.ExchangeJob, sealed bool) {
	log := s.log.With().Str("company_id", job.CompanyID).Str("job_id", job.ID).Logger()
	if sealed {
		if err := s.staging.Unseal(job); err != nil {
			// Sin archivo en su ruta el job ya no puede reintentarse.
			if _, cerr := s.ledger.Complete(ctx, job.ID, entity.JobError, MsgQueueUnavailable); cerr != nil {
				log.Error().Err(cerr).Msg("cerrar job no encolado")
			}
			log.Warn().Err(err).Msg("job no encolado cerrado con error")
			return
		}
	}
	if _, err := s.ledger.Release(ctx, job.ID); err != nil {
		log.Error().Err(err).Msg("devolver job a INACTIVE")
	}
}

// InvalidMode respuesta para un mode desconocido.
func (s *Service) InvalidMode() Response {
	return fail(http.StatusBadRequest, MsgInvalidMode)
}

func (s *Service) serverError(err error, companyID, op string) Response {
	s.log.Error().Err(err).Str("company_id", companyID).Str("op", op).Msg("error del intercambio")
	return fail(http.StatusInternalServerError, MsgServerError)
}
