package oppgave

import (
	"context"
	"fmt"
	"testing"

	"oppgave-sync/feature/oppgave/client/mocks"
	"oppgave-sync/feature/oppgave/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupConsumer(t *testing.T) (*Consumer, *mocks.OppgaveClient) {
	t.Helper()

	engine, mockClient, _ := setupEngine(t)
	c := &Consumer{
		handler:      engine,
		logger:       engine.logger,
		secureLogger: engine.secureLogger,
	}
	return c, mockClient
}

func message(payload string) kafka.Message {
	return kafka.Message{Topic: "oppgave-endret", Offset: 1, Value: []byte(payload)}
}

const jsonWithHjemmelInBeskrivelse = `{
  "id": 301848147,
  "tildeltEnhetsnr": "4291",
  "endretAvEnhetsnr": "4291",
  "opprettetAvEnhetsnr": "4418",
  "tilordnetRessurs": "Z994488",
  "tema": "SYK",
  "oppgavetype": "BEH_SAK_MK",
  "behandlingstype": "ae0058",
  "status": "AAPNET",
  "statuskategori": "AAPEN",
  "prioritet": "NORM",
  "aktivDato": "2019-02-12",
  "opprettetAv": "L105731",
  "opprettetTidspunkt": "2019-02-12T10:47:14.846+01:00",
  "versjon": 25,
  "beskrivelse": "--- 8-14"
}`

const jsonWithoutBeskrivelse = `{
  "id": 301848147,
  "tildeltEnhetsnr": "4291",
  "endretAvEnhetsnr": "4291",
  "opprettetAvEnhetsnr": "4418",
  "tilordnetRessurs": "Z994488",
  "tema": "SYK",
  "oppgavetype": "BEH_SAK_MK",
  "behandlingstype": "ae0058",
  "status": "AAPNET",
  "statuskategori": "AAPEN",
  "prioritet": "NORM",
  "aktivDato": "2019-02-12",
  "opprettetAv": "L105731",
  "opprettetTidspunkt": "2019-02-12T10:47:14.846+01:00",
  "versjon": 25
}`

func jsonWithHjemmelInBeskrivelseAndMetadata(beskrivelse, hjemmelInMetadata string) string {
	return fmt.Sprintf(`{
  "id": 301848147,
  "tildeltEnhetsnr": "4291",
  "endretAvEnhetsnr": "4291",
  "opprettetAvEnhetsnr": "4418",
  "journalpostId": "444997220",
  "tilordnetRessurs": "Z994488",
  "tema": "SYK",
  "oppgavetype": "BEH_SAK_MK",
  "behandlingstype": "ae0058",
  "status": "AAPNET",
  "statuskategori": "AAPEN",
  "prioritet": "NORM",
  "aktivDato": "2019-02-12",
  "opprettetAv": "L105731",
  "opprettetTidspunkt": "2019-02-12T10:47:14.846+01:00",
  "versjon": 25,
  "beskrivelse": %q,
  "metadata": {
    "HJEMMEL": %q
  }
}`, beskrivelse, hjemmelInMetadata)
}

const jsonFullRecord = `{
  "id": 301848147,
  "tildeltEnhetsnr": "4291",
  "endretAvEnhetsnr": "4291",
  "opprettetAvEnhetsnr": "4418",
  "journalpostId": "444997220",
  "tilordnetRessurs": "Z994488",
  "tema": "SYK",
  "oppgavetype": "BEH_SAK_MK",
  "behandlingstype": "ae0058",
  "versjon": 25,
  "beskrivelse": "--- 25.11.2020 13:09 F_Z994488 E_Z994488 (Z994488, 4291) ---\nTest 7\n\nMASKERT",
  "fristFerdigstillelse": "2019-05-01",
  "opprettetTidspunkt": "2019-02-12T10:47:14.846+01:00",
  "aktivDato": "2019-02-12",
  "opprettetAv": "L105731",
  "endretAv": "Z994488",
  "endretTidspunkt": "2020-12-20T12:00:00.000+01:00",
  "prioritet": "NORM",
  "status": "AAPNET",
  "statuskategori": "AAPEN",
  "ident": {
    "identType": "AKTOERID",
    "verdi": "1000098656903",
    "folkeregisterident": "12098227111"
  },
  "mappeId": 100024220,
  "metadata": {
    "HJEMMEL": "8-22"
  }
}`

func TestConsumer_StoresHjemmelWhenNoPrevious(t *testing.T) {
	c, mockClient := setupConsumer(t)

	mockClient.On("GetOppgave", mock.Anything, int64(301848147)).
		Return(testOppgave(301848147, "", ""), nil)
	mockClient.On("PutOppgave", mock.Anything, mock.MatchedBy(func(o models.Oppgave) bool {
		return o.HjemmelValue() == "8-14"
	})).Return(models.Oppgave{}, nil)

	assert.True(t, c.handleMessage(context.Background(), message(jsonWithHjemmelInBeskrivelse)))
	mockClient.AssertExpectations(t)
}

func TestConsumer_StoresHjemmelWhenPreviousDiffers(t *testing.T) {
	c, mockClient := setupConsumer(t)

	mockClient.On("GetOppgave", mock.Anything, int64(301848147)).
		Return(testOppgave(301848147, "", "8-14"), nil)
	mockClient.On("PutOppgave", mock.Anything, mock.MatchedBy(func(o models.Oppgave) bool {
		return o.HjemmelValue() == "22-15"
	})).Return(models.Oppgave{}, nil)

	payload := jsonWithHjemmelInBeskrivelseAndMetadata("--- 22-15", "8-14")
	assert.True(t, c.handleMessage(context.Background(), message(payload)))
	mockClient.AssertExpectations(t)
}

func TestConsumer_SkipsWhenPreviousEqual(t *testing.T) {
	c, mockClient := setupConsumer(t)

	payload := jsonWithHjemmelInBeskrivelseAndMetadata("--- 8-14", "8-14")
	assert.True(t, c.handleMessage(context.Background(), message(payload)))
	mockClient.AssertNotCalled(t, "PutOppgave")
}

func TestConsumer_SkipsManglerWhenPreviousSetAndNothingExtracted(t *testing.T) {
	c, mockClient := setupConsumer(t)

	payload := jsonWithHjemmelInBeskrivelseAndMetadata("--- 6-66", "8-14")
	assert.True(t, c.handleMessage(context.Background(), message(payload)))
	mockClient.AssertNotCalled(t, "PutOppgave")
}

func TestConsumer_SkipsManglerWhenPreviousSetAndBeskrivelseEmpty(t *testing.T) {
	c, mockClient := setupConsumer(t)

	payload := jsonWithHjemmelInBeskrivelseAndMetadata("", "MANGLER")
	assert.True(t, c.handleMessage(context.Background(), message(payload)))
	mockClient.AssertNotCalled(t, "PutOppgave")
}

func TestConsumer_StoresManglerWhenBeskrivelseMissing(t *testing.T) {
	c, mockClient := setupConsumer(t)

	mockClient.On("GetOppgave", mock.Anything, int64(301848147)).
		Return(testOppgave(301848147, "", ""), nil)
	mockClient.On("PutOppgave", mock.Anything, mock.MatchedBy(func(o models.Oppgave) bool {
		return o.HjemmelValue() == HjemmelMangler
	})).Return(models.Oppgave{}, nil)

	assert.True(t, c.handleMessage(context.Background(), message(jsonWithoutBeskrivelse)))
	mockClient.AssertExpectations(t)
}

func TestConsumer_StoresManglerWhenNothingExtractedAndNoPrevious(t *testing.T) {
	c, mockClient := setupConsumer(t)

	mockClient.On("GetOppgave", mock.Anything, int64(301848147)).
		Return(testOppgave(301848147, "", ""), nil)
	mockClient.On("PutOppgave", mock.Anything, mock.MatchedBy(func(o models.Oppgave) bool {
		return o.HjemmelValue() == HjemmelMangler
	})).Return(models.Oppgave{}, nil)

	payload := jsonWithHjemmelInBeskrivelseAndMetadata("ingen paragraf", "")
	assert.True(t, c.handleMessage(context.Background(), message(payload)))
	mockClient.AssertExpectations(t)
}

func TestConsumer_DecodesAllFields(t *testing.T) {
	c, mockClient := setupConsumer(t)

	// Existing hjemmel and nothing extractable, so no write either.
	assert.True(t, c.handleMessage(context.Background(), message(jsonFullRecord)))
	mockClient.AssertNotCalled(t, "PutOppgave")
}

func TestConsumer_InvalidJSONNotCommitted(t *testing.T) {
	c, _ := setupConsumer(t)

	assert.False(t, c.handleMessage(context.Background(), message("{not json")))
}

func TestConsumer_ProcessingFailureNotCommitted(t *testing.T) {
	c, mockClient := setupConsumer(t)

	mockClient.On("GetOppgave", mock.Anything, int64(301848147)).
		Return(models.Oppgave{}, assert.AnError)

	assert.False(t, c.handleMessage(context.Background(), message(jsonWithHjemmelInBeskrivelse)))
}
