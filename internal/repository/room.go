package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/velha-games/velha-backend/internal/apperror"
	"github.com/velha-games/velha-backend/internal/entity"
	"github.com/velha-games/velha-backend/internal/pkg"
)

var ErrNoFreeCode = errors.New("could not allocate a unique room code")

// Rooms are transient, process-lifetime-scoped state: there is no
// cross-process room directory, so the store is a guarded in-memory map.
type RoomRepository interface {
	Create(creator *entity.Player) (*entity.Room, error)
	GetByCode(code string) (*entity.Room, error)
	RemoveIfEmpty(code string)
}

type roomStore struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomRepository() RoomRepository {
	return &roomStore{
		rooms: make(map[string]*entity.Room),
	}
}

// Create - allocates a fresh room code, collision-checked against the
// active rooms, and stores a new waiting room.
func (that *roomStore) Create(creator *entity.Player) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	code, err := that.allocateCode()
	if err != nil {
		return nil, err
	}

	room := entity.NewRoom(code, creator)
	that.rooms[code] = room

	return room, nil
}

// allocateCode retries on collision; collisions are rare given the keyspace,
// so a handful of attempts is plenty. Callers must hold the write lock.
func (that *roomStore) allocateCode() (string, error) {
	const maxAttempts = 10

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := pkg.GenerateRoomCode()
		if err != nil {
			return "", fmt.Errorf("failed to allocate room code: %w", err)
		}

		if _, exists := that.rooms[code]; !exists {
			return code, nil
		}
	}

	return "", ErrNoFreeCode
}

func (that *roomStore) GetByCode(code string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, exists := that.rooms[code]
	if !exists {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

// RemoveIfEmpty - deletes the room once its player list is empty. Called
// after every departure so no orphaned room outlives its last player.
func (that *roomStore) RemoveIfEmpty(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, exists := that.rooms[code]
	if !exists {
		return
	}

	if room.IsEmpty() {
		delete(that.rooms, code)
	}
}
