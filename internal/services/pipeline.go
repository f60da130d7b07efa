package services

import (
	"context"
	"errors"
	"fmt"
	"healthassistant/internal/assembler"
	"healthassistant/internal/cache"
	"healthassistant/internal/generation"
	"healthassistant/internal/health"
	"healthassistant/internal/intent"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"healthassistant/internal/repository"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrMissingUser = errors.New("user id is required")

const (
	KcalSourceModel     = "model"
	KcalSourceReference = "reference"
)

type PipelineConfig struct {
	RepairRetries       int
	HistoryWindowDays   int
	WriteRetries        int
	GenerationTimeout   time.Duration
	Location            *time.Location
	ActivityMultipliers health.ActivityMultipliers
	Ranges              generation.Ranges
}

type PipelineDeps struct {
	Knowledge     *knowledge.Store
	Generator     generation.Generator // nil disables the model; every record turn falls back
	Profiles      repository.UserProfileRepository
	Logs          repository.DailyLogRepository
	Conversations cache.ConversationStore
	Publisher     ReplyPublisher
}

// Pipeline runs one message through classification, retrieval, context
// assembly, validated generation, aggregation and persistence.
type Pipeline struct {
	retriever     *knowledge.Retriever
	classifier    *intent.Classifier
	assembler     *assembler.Assembler
	contracts     *generation.Contracts
	repairer      *generation.Repairer
	profiles      *ProfileService
	profileRepo   repository.UserProfileRepository
	logs          repository.DailyLogRepository
	conversations cache.ConversationStore
	publisher     ReplyPublisher
	locks         *KeyedMutex
	cfg           PipelineConfig
	newTurnID     func() string
}

func NewPipeline(deps PipelineDeps, cfg PipelineConfig) *Pipeline {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.ActivityMultipliers == nil {
		cfg.ActivityMultipliers = health.DefaultActivityMultipliers()
	}
	if cfg.Ranges == (generation.Ranges{}) {
		cfg.Ranges = generation.DefaultRanges()
	}
	if deps.Publisher == nil {
		deps.Publisher = NoopPublisher{}
	}
	if deps.Conversations == nil {
		deps.Conversations = cache.NewMemoryStore(24 * time.Hour)
	}

	retriever := knowledge.NewRetriever(deps.Knowledge)
	contracts := generation.NewContracts(deps.Knowledge, cfg.Ranges)
	locks := NewKeyedMutex()

	p := &Pipeline{
		retriever:     retriever,
		classifier:    intent.NewClassifier(deps.Generator, cfg.GenerationTimeout),
		assembler:     assembler.New(cfg.HistoryWindowDays, cfg.ActivityMultipliers),
		contracts:     contracts,
		profiles:      NewProfileService(deps.Profiles, retriever, contracts, cfg.ActivityMultipliers, locks),
		profileRepo:   deps.Profiles,
		logs:          deps.Logs,
		conversations: deps.Conversations,
		publisher:     deps.Publisher,
		locks:         locks,
		cfg:           cfg,
		newTurnID:     func() string { return uuid.New().String() },
	}
	if deps.Generator != nil {
		p.repairer = generation.NewRepairer(deps.Generator, cfg.RepairRetries, cfg.GenerationTimeout)
	}
	return p
}

func (p *Pipeline) Profiles() *ProfileService { return p.profiles }

// HandleMessage always returns a reply for a valid user. Failures are logged
// and answered with a generic fallback.
func (p *Pipeline) HandleMessage(ctx context.Context, userID, text string, ts time.Time) (*models.ReplyPayload, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.In(p.cfg.Location)
	text = strings.TrimSpace(text)

	reply, err := p.handle(ctx, userID, text, ts)
	if err != nil {
		if errors.Is(err, knowledge.ErrKnowledgeMissing) {
			log.Printf("Pipeline: KNOWLEDGE MISSING for user %s: %v", userID, err)
		} else {
			log.Printf("Pipeline: turn failed for user %s: %v", userID, err)
		}
		if reply == nil {
			reply = &models.ReplyPayload{Intent: models.IntentUnknown}
		}
		reply.Text = genericFailureText
		reply.Fallback = true
	}

	reply.TurnID = p.newTurnID()
	reply.UserID = userID
	reply.CreatedAt = ts
	if err := p.publisher.Publish(ctx, reply); err != nil {
		log.Printf("Pipeline: failed to publish turn %s: %v", reply.TurnID, err)
	}
	return reply, nil
}

func (p *Pipeline) handle(ctx context.Context, userID, text string, ts time.Time) (*models.ReplyPayload, error) {
	if reply, ok, err := p.menuCommand(ctx, userID, text, ts); ok {
		return reply, err
	}

	state, err := p.conversations.Get(ctx, userID)
	if err != nil {
		log.Printf("Pipeline: failed to load conversation state for %s: %v", userID, err)
		state = nil
	}

	cls := p.classifier.Classify(ctx, text, state)
	log.Printf("Pipeline: user %s intent=%s source=%s", userID, cls.Intent, cls.Source)

	switch cls.Intent {
	case models.IntentUnknown:
		return &models.ReplyPayload{
			Intent:       models.IntentUnknown,
			Text:         clarificationText,
			QuickReplies: recordMenuReplies(!isASCII(text)),
		}, nil
	case models.IntentQuery:
		return p.weeklyReply(ctx, userID, ts)
	}

	reply, err := p.record(ctx, userID, text, ts, cls)
	if err != nil {
		return &models.ReplyPayload{Intent: cls.Intent}, err
	}
	if !reply.Fallback && state != nil {
		if err := p.conversations.Clear(ctx, userID); err != nil {
			log.Printf("Pipeline: failed to clear conversation state for %s: %v", userID, err)
		}
	}
	return reply, nil
}

func (p *Pipeline) menuCommand(ctx context.Context, userID, text string, ts time.Time) (*models.ReplyPayload, bool, error) {
	key := strings.ToLower(text)
	switch {
	case profileHelpCommands[key]:
		return &models.ReplyPayload{Intent: models.IntentProfileUpdate, Text: profileHelpText}, true, nil
	case recordMenuCommands[key]:
		return &models.ReplyPayload{
			Intent:       models.IntentUnknown,
			Text:         "Choose what to record:",
			QuickReplies: recordMenuReplies(!isASCII(text)),
		}, true, nil
	case reportCommands[key]:
		reply, err := p.weeklyReply(ctx, userID, ts)
		return reply, true, err
	}

	mode, ok := recordModeCommands[key]
	if !ok {
		return nil, false, nil
	}
	err := p.conversations.Set(ctx, &models.ConversationState{UserID: userID, PendingIntent: mode, UpdatedAt: ts})
	if err != nil {
		log.Printf("Pipeline: failed to store record mode for %s: %v", userID, err)
	}
	return &models.ReplyPayload{Intent: mode, Text: recordModePrompt(mode)}, true, nil
}

// WeeklyReport summarizes the seven local dates ending at the date of to.
func (p *Pipeline) WeeklyReport(ctx context.Context, userID string, to time.Time) (*models.WeeklyReport, error) {
	from, toDate := health.WeekRange(to.In(p.cfg.Location))
	days, err := p.logs.FindRange(ctx, userID, from, toDate)
	if err != nil {
		return nil, err
	}
	profile, err := p.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var tdee *float64
	if e := p.profiles.Energy(profile); e != nil {
		tdee = &e.TDEE
	}
	return health.BuildWeeklyReport(userID, from, toDate, days, tdee), nil
}

func (p *Pipeline) weeklyReply(ctx context.Context, userID string, ts time.Time) (*models.ReplyPayload, error) {
	report, err := p.WeeklyReport(ctx, userID, ts)
	if err != nil {
		return &models.ReplyPayload{Intent: models.IntentQuery}, err
	}
	text := weeklyText(report)
	if narrative := p.weeklyNarrative(ctx, userID, report); narrative != nil {
		text += "\n\n" + narrativeText(narrative)
	}
	return &models.ReplyPayload{Intent: models.IntentQuery, Text: text, Report: report}, nil
}

// weeklyNarrative asks the model to comment on the computed report. It returns
// nil when there is nothing to review, no model, or no valid answer.
func (p *Pipeline) weeklyNarrative(ctx context.Context, userID string, report *models.WeeklyReport) *generation.WeeklyNarrativeOutput {
	if report.DaysLogged == 0 || p.repairer == nil {
		return nil
	}
	req := assembler.WeeklyNarrativeRequest(report, p.contracts.WeeklyNarrative())
	out, err := generate(ctx, p, req, p.contracts.ValidateWeeklyNarrative)
	if err != nil {
		log.Printf("Pipeline: weekly narrative skipped for %s: %v", userID, err)
		return nil
	}
	return out
}

// turn is the per-message state shared by the record paths.
type turn struct {
	userID  string
	text    string
	ts      time.Time
	date    string
	cls     intent.Classification
	profile *models.UserProfile
	today   *models.DailyLog
	slice   knowledge.Slice
}

func (p *Pipeline) record(ctx context.Context, userID, text string, ts time.Time, cls intent.Classification) (*models.ReplyPayload, error) {
	t := turn{userID: userID, text: text, ts: ts, date: ts.Format(models.DateLayout), cls: cls}

	var err error
	if t.profile, err = p.profileRepo.FindByUserID(ctx, userID); err != nil {
		return nil, err
	}
	age := cls.Entities.Age
	if t.profile != nil && t.profile.Age != nil {
		age = t.profile.Age
	}
	t.slice, err = p.retriever.Retrieve(cls.Intent, knowledge.Query{Age: age, ReadingTypes: cls.Entities.ReadingTypes})
	if err != nil {
		return nil, err
	}
	if t.today, err = p.logs.FindByUserAndDate(ctx, userID, t.date); err != nil {
		return nil, err
	}
	history, err := p.history(ctx, userID, ts)
	if err != nil {
		return nil, err
	}

	contract, ok := p.contracts.For(cls.Intent)
	if !ok {
		return nil, fmt.Errorf("no output contract for intent %s", cls.Intent)
	}
	bundle := p.assembler.Assemble(assembler.Turn{
		UserID:    userID,
		Text:      text,
		Timestamp: ts,
		Intent:    cls.Intent,
	}, t.profile, t.today, history, t.slice, contract)
	req := bundle.Request()

	switch cls.Intent {
	case models.IntentDiet:
		return p.recordDiet(ctx, t, req)
	case models.IntentSleep:
		return p.recordSleep(ctx, t, req)
	case models.IntentVitals:
		return p.recordVitals(ctx, t, req)
	case models.IntentProfileUpdate:
		return p.recordProfile(ctx, t, req)
	}
	return nil, fmt.Errorf("intent %s does not record", cls.Intent)
}

func (p *Pipeline) history(ctx context.Context, userID string, ts time.Time) ([]models.DailyLog, error) {
	n := p.assembler.WindowDays()
	if n <= 0 {
		return nil, nil
	}
	from := ts.AddDate(0, 0, -n).Format(models.DateLayout)
	to := ts.AddDate(0, 0, -1).Format(models.DateLayout)
	return p.logs.FindRange(ctx, userID, from, to)
}

// generate runs the validated generation loop. Without a model it reports
// exhaustion so the caller takes its fallback path.
func generate[T any](ctx context.Context, p *Pipeline, req generation.GenerateRequest, validate generation.Validator[T]) (*T, error) {
	if p.repairer == nil {
		return nil, fmt.Errorf("%w: no model configured", generation.ErrGenerationExhausted)
	}
	out, report, err := generation.Generate(ctx, p.repairer, req, validate)
	if report.Repairs > 0 {
		log.Printf("Pipeline: generation needed %d repairs (%d calls)", report.Repairs, report.Calls)
	}
	return out, err
}

// appendToDay is the only write path for daily logs. It holds the user's lock
// and re-applies add on a fresh read whenever the store reports a conflict.
func (p *Pipeline) appendToDay(ctx context.Context, userID, date string, add func(day *models.DailyLog)) (*models.DailyLog, error) {
	unlock := p.locks.Lock(userID)
	defer unlock()

	profile, err := p.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	budget, known := 0.0, false
	if e := p.profiles.Energy(profile); e != nil {
		budget, known = e.Budget, true
	}

	var lastErr error
	for attempt := 0; attempt <= p.cfg.WriteRetries; attempt++ {
		day, err := p.logs.Append(ctx, userID, date, func(day *models.DailyLog) error {
			add(day)
			health.RecomputeTotals(day, budget, known)
			return nil
		})
		if err == nil {
			return day, nil
		}
		if !errors.Is(err, repository.ErrStoreWriteConflict) {
			return nil, err
		}
		lastErr = err
		log.Printf("Pipeline: write conflict on %s/%s, attempt %d", userID, date, attempt+1)
	}
	return nil, fmt.Errorf("giving up after %d retries: %w", p.cfg.WriteRetries, lastErr)
}

func (p *Pipeline) recordDiet(ctx context.Context, t turn, req generation.GenerateRequest) (*models.ReplyPayload, error) {
	out, err := generate(ctx, p, req, p.contracts.ValidateDiet)
	if errors.Is(err, generation.ErrGenerationExhausted) {
		log.Printf("Pipeline: diet fallback for %s: %v", t.userID, err)
		reply := &models.ReplyPayload{Intent: models.IntentDiet, Text: dietFallbackText(t.today), Fallback: true}
		if t.today != nil {
			reply.Totals = health.Totals(t.today)
		}
		return reply, nil
	}
	if err != nil {
		return nil, err
	}

	meals := make([]models.MealEntry, 0, len(out.Items))
	for _, item := range out.Items {
		meal := models.MealEntry{
			Timestamp:       t.ts,
			FoodDescription: strings.TrimSpace(item.Name),
			EstimatedKcal:   *item.EstimatedKcal,
			Macros: models.MacroBreakdown{
				CarbsG:   *item.CarbsG,
				ProteinG: *item.ProteinG,
				FatG:     *item.FatG,
			},
			SodiumMG:     *item.SodiumMG,
			FoodCategory: models.FoodCategory(item.FoodCategory),
			KcalSource:   KcalSourceModel,
		}
		if ref, ok := t.slice.Diet.LookupItem(item.Name); ok {
			meal.EstimatedKcal = ref.Kcal
			meal.KcalSource = KcalSourceReference
		}
		meals = append(meals, meal)
	}

	day, err := p.appendToDay(ctx, t.userID, t.date, func(day *models.DailyLog) {
		day.Meals = append(day.Meals, meals...)
	})
	if err != nil {
		return nil, err
	}

	return &models.ReplyPayload{
		Intent: models.IntentDiet,
		Text:   dietText(meals, day, t.slice.Diet, out.Note),
		Totals: health.Totals(day),
	}, nil
}

func (p *Pipeline) recordSleep(ctx context.Context, t turn, req generation.GenerateRequest) (*models.ReplyPayload, error) {
	out, err := generate(ctx, p, req, p.contracts.SleepValidator(t.ts))
	if errors.Is(err, generation.ErrGenerationExhausted) {
		log.Printf("Pipeline: sleep fallback for %s: %v", t.userID, err)
		return &models.ReplyPayload{Intent: models.IntentSleep, Text: sleepFallbackText, Fallback: true}, nil
	}
	if err != nil {
		return nil, err
	}

	in, err := out.Resolve(t.ts)
	if err != nil {
		return nil, err
	}
	assessment, err := health.AssessSleep(in, t.slice.Sleep)
	if err != nil {
		return nil, err
	}
	session := assessment.Session(in)

	// A night belongs to the date the user woke up.
	day, err := p.appendToDay(ctx, t.userID, in.End.Format(models.DateLayout), func(day *models.DailyLog) {
		day.SleepSessions = append(day.SleepSessions, session)
	})
	if err != nil {
		return nil, err
	}
	stored := day.SleepSessions[len(day.SleepSessions)-1]

	return &models.ReplyPayload{
		Intent: models.IntentSleep,
		Text:   sleepText(assessment, t.slice.Sleep, out.Note),
		Sleep:  &stored,
	}, nil
}

func (p *Pipeline) recordVitals(ctx context.Context, t turn, req generation.GenerateRequest) (*models.ReplyPayload, error) {
	// Grading always uses every chronic table so a reading type the rules
	// missed still grades.
	full, err := p.retriever.FullChronic()
	if err != nil {
		return nil, err
	}

	out, err := generate(ctx, p, req, p.contracts.ValidateVitals)
	if errors.Is(err, generation.ErrGenerationExhausted) {
		log.Printf("Pipeline: vitals fallback for %s: %v", t.userID, err)
		grades := entityGrades(full.Chronic, t.cls.Entities)
		return &models.ReplyPayload{
			Intent:   models.IntentVitals,
			Text:     vitalsFallbackText(grades),
			Fallback: true,
			Grades:   grades,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var readings []models.VitalReading
	var notes []string
	if bp := out.BloodPressure; bp != nil {
		readings = append(readings, models.VitalReading{
			Timestamp: t.ts, Type: models.VitalBloodPressure, Systolic: bp.Systolic, Diastolic: bp.Diastolic,
		})
	}
	if g := out.Glucose; g != nil {
		readings = append(readings, models.VitalReading{
			Timestamp: t.ts, Type: models.VitalGlucose, Value: g.Value, GlucoseContext: models.GlucoseContext(g.Context),
		})
	}
	if out.WeightKG != nil {
		if t.profile == nil || t.profile.HeightCM == nil {
			notes = append(notes, "Add your height to your profile so I can grade your BMI.")
		} else if bmi, err := health.BMIValue(*out.WeightKG, *t.profile.HeightCM); err == nil {
			readings = append(readings, models.VitalReading{Timestamp: t.ts, Type: models.VitalBMI, Value: &bmi})
		}
	}
	if len(readings) == 0 {
		return &models.ReplyPayload{Intent: models.IntentVitals, Text: strings.Join(notes, "\n"), Fallback: true}, nil
	}

	graded := make([]health.GradedReading, len(readings))
	grades := make([]models.GradeResult, len(readings))
	for i := range readings {
		band, err := health.ApplyGrade(full.Chronic, full.Version, &readings[i])
		if err != nil {
			return nil, err
		}
		graded[i] = health.GradedReading{Reading: &readings[i], Band: band}
		grades[i] = health.GradeResult(&readings[i], band)
	}

	day, err := p.appendToDay(ctx, t.userID, t.date, func(day *models.DailyLog) {
		day.Vitals = append(day.Vitals, readings...)
	})
	if err != nil {
		return nil, err
	}

	latest, err := health.LatestByType(full.Chronic, day.Vitals)
	if err != nil {
		return nil, err
	}
	advice := health.BuildChronicAdvice(full.Chronic, graded, latest)
	notes = append(notes, out.Note)

	return &models.ReplyPayload{
		Intent: models.IntentVitals,
		Text:   vitalsText(grades, advice, notes),
		Grades: grades,
	}, nil
}

// entityGrades grades the numbers the pattern rules read straight from the
// text. It backs the vitals fallback reply and never reaches the store.
func entityGrades(chronic *knowledge.ChronicSlice, e intent.Entities) []models.GradeResult {
	var readings []models.VitalReading
	if e.Systolic != nil && e.Diastolic != nil && *e.Systolic > *e.Diastolic {
		readings = append(readings, models.VitalReading{Type: models.VitalBloodPressure, Systolic: e.Systolic, Diastolic: e.Diastolic})
	}
	if e.Glucose != nil {
		readings = append(readings, models.VitalReading{Type: models.VitalGlucose, Value: e.Glucose, GlucoseContext: models.GlucoseRandom})
	}
	var grades []models.GradeResult
	for i := range readings {
		band, err := health.GradeReading(chronic, &readings[i])
		if err != nil {
			continue
		}
		grades = append(grades, health.GradeResult(&readings[i], band))
	}
	return grades
}

func (p *Pipeline) recordProfile(ctx context.Context, t turn, req generation.GenerateRequest) (*models.ReplyPayload, error) {
	out, err := generate(ctx, p, req, p.contracts.ValidateProfile)
	if errors.Is(err, generation.ErrGenerationExhausted) {
		log.Printf("Pipeline: profile fallback for %s: %v", t.userID, err)
		return &models.ReplyPayload{Intent: models.IntentProfileUpdate, Text: profileFallbackText, Fallback: true}, nil
	}
	if err != nil {
		return nil, err
	}

	view, err := p.profiles.Update(ctx, t.userID, out)
	if err != nil {
		return nil, err
	}
	var energy *health.Energy
	if view.BMR != nil {
		energy = &health.Energy{BMR: *view.BMR, TDEE: *view.TDEE, Budget: *view.Budget}
	}
	return &models.ReplyPayload{
		Intent: models.IntentProfileUpdate,
		Text:   profileText(view.Profile, energy, view.BMI),
	}, nil
}

func isASCII(s string) bool {
	return utf8.RuneCountInString(s) == len(s)
}
