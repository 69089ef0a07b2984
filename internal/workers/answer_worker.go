package workers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/devgrill/devgrill/internal/providers/stt"
	"github.com/devgrill/devgrill/internal/services"
)

// AnswerStream is the Redis stream audio answers are queued on.
const AnswerStream = "answers:audio"

// AnswerWorkerPool consumes queued audio answers: it fetches the stored
// audio, transcribes it through the STT collaborator, and submits the
// transcript through the regular answer pipeline (which evaluates, persists
// and publishes the result event). Evaluation degradation is handled inside
// the pipeline; a worker only fails a message when the audio itself cannot
// be transcribed.
type AnswerWorkerPool struct {
	Redis      *redis.Client
	Interviews services.InterviewService
	STT        stt.Provider
	NumWorkers int

	Logger *logrus.Logger

	Group          string
	ConsumerPrefix string
}

func (p *AnswerWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Interviews == nil || p.STT == nil {
		return errors.New("AnswerWorkerPool missing dependency: Redis/Interviews/STT must be set")
	}
	if p.Group == "" {
		p.Group = "answer-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, AnswerStream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *AnswerWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{AnswerStream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, AnswerStream, p.Group, msg.ID).Err()
			}
		}
	}
}

// normalizeSpeechLanguage maps an interview language hint onto a speech
// recognition locale.
func normalizeSpeechLanguage(v string) string {
	switch strings.TrimSpace(v) {
	case "es", "es-ES":
		return "es-ES"
	case "en", "en-US", "":
		return "en-US"
	default:
		return v
	}
}

func (p *AnswerWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	userID := getStr("user_id")
	interviewID := getStr("interview_id")
	questionID := getStr("question_id")
	audioURL := getStr("audio_url")
	if userID == "" || interviewID == "" || questionID == "" || audioURL == "" {
		return
	}
	duration, _ := strconv.ParseInt(getStr("duration_seconds"), 10, 64)

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"interview_id": interviewID,
		"question_id":  questionID,
	})

	statusCh := services.EventChannel(interviewID)

	// Fetch audio
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("audio fetch failed")
		p.publishStatus(ctx, statusCh, questionID, "failed", "failed to fetch audio")
		return
	}
	defer resp.Body.Close()

	const maxBytes = 10 << 20
	audioBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if len(audioBytes) == 0 {
		p.publishStatus(ctx, statusCh, questionID, "failed", "empty audio")
		return
	}

	// STT
	p.publishStatus(ctx, statusCh, questionID, "processing", "transcribing")

	language := normalizeSpeechLanguage(getStr("language"))
	text, conf, err := p.STT.Transcribe(ctx, audioBytes, language)
	if err != nil {
		log.WithError(err).Error("stt failed")
		p.publishStatus(ctx, statusCh, questionID, "failed", "transcription failed")
		return
	}
	log.WithField("confidence", conf).Debug("transcript ready")

	// Evaluation + persistence + result event all happen inside the
	// regular answer pipeline.
	_, err = p.Interviews.SubmitAnswer(ctx, services.SubmitAnswerInput{
		UserID:          userID,
		InterviewID:     interviewID,
		QuestionID:      questionID,
		Text:            text,
		AudioRef:        &audioURL,
		DurationSeconds: duration,
	})
	if err != nil {
		log.WithError(err).Error("answer submission failed")
		p.publishStatus(ctx, statusCh, questionID, "failed", "answer submission failed")
		return
	}
}

func statusPayload(questionID, status, message string) []byte {
	payload, _ := json.Marshal(map[string]any{
		"type":        "status",
		"status":      status,
		"message":     message,
		"question_id": questionID,
	})
	return payload
}

func (p *AnswerWorkerPool) publishStatus(ctx context.Context, channel, questionID, status, message string) {
	_ = p.Redis.Publish(ctx, channel, statusPayload(questionID, status, message)).Err()
}
