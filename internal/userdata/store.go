package userdata

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/visiondb/internal/config"
	"github.com/phrazzld/visiondb/internal/domain"
	"github.com/phrazzld/visiondb/internal/platform/database"
	"github.com/phrazzld/visiondb/internal/platform/logger"
	"github.com/phrazzld/visiondb/internal/redact"
	"github.com/phrazzld/visiondb/internal/store"
)

// partialCascade is what DeleteAccount removes besides the user row unless
// Options.CascadeAllResults is set.
var partialCascade = []domain.Variant{
	domain.VariantVisualAcuity,
	domain.VariantColorVision,
}

// Options tunes a Store.
type Options struct {
	// PasswordScheme is config.PasswordSchemePlaintext (the default when
	// empty) or config.PasswordSchemeBcrypt.
	PasswordScheme string
	// BcryptCost is used by the bcrypt scheme. Zero means bcrypt.DefaultCost.
	BcryptCost int
	// CascadeAllResults makes DeleteAccount clear every result table.
	CascadeAllResults bool
}

// OptionsFromConfig extracts the Store options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PasswordScheme:    cfg.Auth.PasswordScheme,
		BcryptCost:        cfg.Auth.BcryptCost,
		CascadeAllResults: cfg.Store.CascadeAllResults,
	}
}

// Store is the user data store. It is safe for concurrent use; every
// method runs in its own transaction on the shared pool.
type Store struct {
	db        store.TxBeginner
	users     store.UserStore
	results   store.ResultStore
	passwords passwordScheme
	cascade   []domain.Variant
	logger    *slog.Logger
}

// New builds a Store over db using the SQL stores for dialect.
func New(db *sql.DB, dialect database.Dialect, opts Options, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("userdata: db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return NewWithStores(
		db,
		database.NewUserStore(db, dialect, logger),
		database.NewResultStore(db, dialect, logger),
		opts,
		logger,
	)
}

// NewWithStores builds a Store from explicit store implementations. Every
// operation begins a transaction on db and binds the stores to it with
// WithTx.
func NewWithStores(
	db store.TxBeginner,
	users store.UserStore,
	results store.ResultStore,
	opts Options,
	logger *slog.Logger,
) (*Store, error) {
	passwords, err := newPasswordScheme(opts.PasswordScheme, opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	cascade := partialCascade
	if opts.CascadeAllResults {
		cascade = domain.Variants
	}

	return &Store{
		db:        db,
		users:     users,
		results:   results,
		passwords: passwords,
		cascade:   cascade,
		logger:    logger.With(slog.String("component", "userdata")),
	}, nil
}

// prefixedError marks the stage at which an operation failed, so the
// resulting Status can carry the matching prefix.
type prefixedError struct {
	prefix string
	err    error
}

func (e *prefixedError) Error() string { return e.prefix + e.err.Error() }

func (e *prefixedError) Unwrap() error { return e.err }

func withPrefix(prefix string, err error) error {
	return &prefixedError{prefix: prefix, err: err}
}

// failureStatus converts an operation error into the Status reported to
// callers.
func failureStatus(err error) Status {
	if store.IsConnectionError(err) {
		return StatusConnectionFailed
	}
	return Status(err.Error())
}

// begin tags ctx with an operation logger that the stores pick up.
func (s *Store) begin(ctx context.Context, op string) (context.Context, *slog.Logger) {
	log := s.logger.With(
		slog.String("operation", op),
		slog.String("op_id", uuid.New().String()),
	)
	return logger.WithLogger(ctx, log), log
}

// Register creates an account unless the email is already taken.
//
// Driver failures during the email check are reported as
// "Registration error: <msg>", failures of the insert itself as
// "Insert error: <msg>".
func (s *Store) Register(ctx context.Context, name, email, password string) Status {
	ctx, log := s.begin(ctx, "register")

	status := StatusSuccess
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		exists, err := users.EmailExists(ctx, email, 0)
		if err != nil {
			return withPrefix(registrationErrorPrefix, err)
		}
		if exists {
			status = StatusEmailExists
			return nil
		}

		stored, err := s.passwords.Hash(password)
		if err != nil {
			return withPrefix(insertErrorPrefix, err)
		}

		if err := users.Create(ctx, domain.NewUser(name, email, stored)); err != nil {
			return withPrefix(insertErrorPrefix, err)
		}
		return nil
	})

	switch {
	case err == nil:
		if status == StatusEmailExists {
			log.Info("email already registered", slog.String("email", redact.Email(email)))
		} else {
			log.Info("user registered", slog.String("email", redact.Email(email)))
		}
		return status
	case errors.Is(err, store.ErrEmailExists):
		// lost the race between the check and the insert
		log.Info("email registered concurrently", slog.String("email", redact.Email(email)))
		return StatusEmailExists
	default:
		log.Error("registration failed",
			slog.String("email", redact.Email(email)),
			slog.String("error", database.DriverDetail(err)))
		return failureStatus(err)
	}
}

// Login checks email and password against the stored account. No account
// data is returned.
func (s *Store) Login(ctx context.Context, email, password string) Status {
	ctx, log := s.begin(ctx, "login")

	var status Status
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		user, err := s.users.WithTx(tx).GetByEmail(ctx, email)
		if errors.Is(err, store.ErrUserNotFound) {
			status = StatusEmailNotFound
			return nil
		}
		if err != nil {
			return err
		}

		if s.passwords.Matches(user.Password, password) {
			status = StatusValidCredentials
		} else {
			status = StatusIncorrectPassword
		}
		return nil
	})
	if err != nil {
		log.Error("login failed",
			slog.String("email", redact.Email(email)),
			slog.String("error", database.DriverDetail(err)))
		return failureStatus(err)
	}

	log.Debug("login checked", slog.String("status", string(status)))
	return status
}

// GetUserName returns the name of the account owning email. The second
// result is false if there is no such account or the lookup failed.
func (s *Store) GetUserName(ctx context.Context, email string) (string, bool) {
	user, ok := s.lookup(ctx, "get_user_name", email)
	if !ok {
		return "", false
	}
	return user.Name, true
}

// GetUserID returns the ID of the account owning email. The second result
// is false if there is no such account or the lookup failed.
func (s *Store) GetUserID(ctx context.Context, email string) (int64, bool) {
	user, ok := s.lookup(ctx, "get_user_id", email)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

func (s *Store) lookup(ctx context.Context, op, email string) (*domain.User, bool) {
	ctx, log := s.begin(ctx, op)

	var user *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		user, err = s.users.WithTx(tx).GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("user lookup failed",
				slog.String("email", redact.Email(email)),
				slog.String("error", database.DriverDetail(err)))
		}
		return nil, false
	}
	return user, true
}

// SaveVisualAcuityResult appends a visual acuity result for userID.
func (s *Store) SaveVisualAcuityResult(
	ctx context.Context,
	userID int64,
	rightEyeLevel, rightEyeIncorrect, leftEyeLevel, leftEyeIncorrect int,
	feedback string,
) bool {
	return s.save(ctx, &domain.VisualAcuityResult{
		UserID:            userID,
		RightEyeMaxLevel:  rightEyeLevel,
		RightEyeIncorrect: rightEyeIncorrect,
		LeftEyeMaxLevel:   leftEyeLevel,
		LeftEyeIncorrect:  leftEyeIncorrect,
		Feedback:          feedback,
	})
}

// SaveColorVisionResult appends a color vision result for userID.
func (s *Store) SaveColorVisionResult(ctx context.Context, userID int64, correct, incorrect int, feedback string) bool {
	return s.save(ctx, &domain.ColorVisionResult{
		UserID:           userID,
		CorrectAnswers:   correct,
		IncorrectAnswers: incorrect,
		Feedback:         feedback,
	})
}

// SaveContrastVisionResult appends a contrast vision result for userID.
func (s *Store) SaveContrastVisionResult(ctx context.Context, userID int64, score, incorrect int, feedback string) bool {
	return s.saveScored(ctx, domain.VariantContrastVision, userID, score, incorrect, feedback)
}

// SaveBlurCheckResult appends a blur check result for userID.
func (s *Store) SaveBlurCheckResult(ctx context.Context, userID int64, score, incorrect int, feedback string) bool {
	return s.saveScored(ctx, domain.VariantBlurCheck, userID, score, incorrect, feedback)
}

// SaveWatchDotResult appends a watch dot result for userID.
func (s *Store) SaveWatchDotResult(ctx context.Context, userID int64, score, incorrect int, feedback string) bool {
	return s.saveScored(ctx, domain.VariantWatchDot, userID, score, incorrect, feedback)
}

func (s *Store) saveScored(
	ctx context.Context,
	kind domain.Variant,
	userID int64,
	score, incorrect int,
	feedback string,
) bool {
	result, err := domain.NewScoredResult(kind, userID, score, incorrect, feedback)
	if err != nil {
		s.logger.Error("invalid scored result", slog.String("error", err.Error()))
		return false
	}
	return s.save(ctx, result)
}

// save does not check that the owner exists.
func (s *Store) save(ctx context.Context, result domain.Result) bool {
	ctx, log := s.begin(ctx, "save_"+string(result.Variant()))

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.results.WithTx(tx).Save(ctx, result)
	})
	if err != nil {
		log.Error("failed to save test result",
			slog.Int64("user_id", result.Owner()),
			slog.String("error", database.DriverDetail(err)))
		return false
	}
	return true
}

// GetTotalTestsCount returns how many results userID has across all
// variants, or 0 if the count failed.
func (s *Store) GetTotalTestsCount(ctx context.Context, userID int64) int {
	ctx, log := s.begin(ctx, "get_total_tests_count")

	var total int
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		total, err = s.results.WithTx(tx).TotalByUser(ctx, userID)
		return err
	})
	if err != nil {
		log.Error("failed to count tests",
			slog.Int64("user_id", userID),
			slog.String("error", database.DriverDetail(err)))
		return 0
	}
	return total
}

// TestCount returns the number of results userID has per variant, keyed by
// table name. It returns an empty map if the count failed.
func (s *Store) TestCount(ctx context.Context, userID int64) map[string]int {
	ctx, log := s.begin(ctx, "test_count")

	var counts domain.TestCounts
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		counts, err = s.results.WithTx(tx).CountByUser(ctx, userID)
		return err
	})
	if err != nil {
		log.Error("failed to count tests per variant",
			slog.Int64("user_id", userID),
			slog.String("error", database.DriverDetail(err)))
		return map[string]int{}
	}

	out := make(map[string]int, len(counts))
	for variant, n := range counts {
		out[string(variant)] = n
	}
	return out
}

// UpdateProfile sets the name and email of userID unless another account
// already uses the email.
func (s *Store) UpdateProfile(ctx context.Context, userID int64, username, email string) Status {
	ctx, log := s.begin(ctx, "update_profile")

	status := StatusSuccess
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		taken, err := users.EmailExists(ctx, email, userID)
		if err != nil {
			return err
		}
		if taken {
			status = StatusEmailInUse
			return nil
		}
		return users.UpdateProfile(ctx, userID, username, email)
	})

	switch {
	case err == nil:
		log.Info("profile update finished",
			slog.Int64("user_id", userID),
			slog.String("status", string(status)))
		return status
	case errors.Is(err, store.ErrEmailExists):
		return StatusEmailInUse
	default:
		log.Error("profile update failed",
			slog.Int64("user_id", userID),
			slog.String("error", database.DriverDetail(err)))
		return failureStatus(err)
	}
}

// ChangePassword replaces the password of userID if current matches the
// stored one. A missing account is reported as an incorrect password.
func (s *Store) ChangePassword(ctx context.Context, userID int64, current, next string) Status {
	ctx, log := s.begin(ctx, "change_password")

	status := StatusSuccess
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if errors.Is(err, store.ErrUserNotFound) {
			status = StatusIncorrectCurrentPassword
			return nil
		}
		if err != nil {
			return err
		}
		if !s.passwords.Matches(user.Password, current) {
			status = StatusIncorrectCurrentPassword
			return nil
		}

		stored, err := s.passwords.Hash(next)
		if err != nil {
			return err
		}
		return users.UpdatePassword(ctx, userID, stored)
	})
	if err != nil {
		log.Error("password change failed",
			slog.Int64("user_id", userID),
			slog.String("error", database.DriverDetail(err)))
		return failureStatus(err)
	}

	log.Info("password change finished",
		slog.Int64("user_id", userID),
		slog.String("status", string(status)))
	return status
}

// DeleteAccount removes userID and its visual acuity and color vision
// results. Results in the other tables are kept unless the Store was built
// with CascadeAllResults. Deleting a missing account succeeds.
func (s *Store) DeleteAccount(ctx context.Context, userID int64) Status {
	ctx, log := s.begin(ctx, "delete_account")

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.results.WithTx(tx).DeleteByUser(ctx, userID, s.cascade...); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		log.Error("account deletion failed",
			slog.Int64("user_id", userID),
			slog.String("error", database.DriverDetail(err)))
		return failureStatus(err)
	}

	log.Info("account deleted",
		slog.Int64("user_id", userID),
		slog.Int("result_tables_cleared", len(s.cascade)))
	return StatusSuccess
}
