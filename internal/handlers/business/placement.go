package business

import (
	"errors"
	"fmt"
	"strings"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Placement is a resolved (upline, side) slot for a new enrollment.
type Placement struct {
	UplineID string
	Side     models.BinarySide
	Depth    int
}

// chooseSlot decides what to do at one node during the placement search:
// an empty A slot wins, then an empty B slot, otherwise the search descends
// into the weaker side. Ties descend into A. Deterministic on purpose so
// placements are reproducible and auditable.
func chooseSlot(hasA, hasB bool, aCount, bCount int) (side models.BinarySide, found bool) {
	if !hasA {
		return models.SideA, true
	}
	if !hasB {
		return models.SideB, true
	}
	if aCount <= bCount {
		return models.SideA, false
	}
	return models.SideB, false
}

// weakerSide returns the side with fewer accumulated units, A on ties.
func weakerSide(aCount, bCount int) models.BinarySide {
	if aCount <= bCount {
		return models.SideA
	}
	return models.SideB
}

// JoinBinary enrolls a paid agent into the binary tree. Joining twice is a
// no-op returning the existing node. The join fee is assumed already
// collected by the enrollment flow that calls this.
func JoinBinary(accountID string, params config.BinaryParams) (*models.BinaryMember, error) {
	var existing models.BinaryMember
	err := config.DB.First(&existing, "account_id = ?", accountID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wallet.ErrAccountNotFound
		}
		return nil, err
	}
	if !account.IsAgent {
		return nil, wallet.PlacementNotFound("only paid agents join the binary tree")
	}

	// the slot claim can collide with a concurrent join racing for the same
	// (upline, side); the unique index rejects the loser, who searches again
	var member *models.BinaryMember
	for attempt := 0; attempt < 3; attempt++ {
		placement, err := findPlacement(account.InviterID, params)
		if err != nil {
			return nil, err
		}

		candidate := &models.BinaryMember{
			AccountID:     accountID,
			PositionSide:  placement.Side,
			PositionDepth: placement.Depth,
			IsActive:      true,
		}
		if placement.UplineID != "" {
			uplineID := placement.UplineID
			candidate.UplineID = &uplineID
		}

		err = config.DB.Create(candidate).Error
		if err == nil {
			member = candidate
			break
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		logrus.WithField("account_id", accountID).Debug("placement slot taken, retrying search")
	}
	if member == nil {
		return nil, wallet.PlacementNotFound("placement search exhausted retries")
	}

	if member.UplineID != nil {
		path, err := PropagateUnits(*member.UplineID, member.PositionSide, 1, params)
		if err != nil {
			return member, err
		}
		settlePath(path, params)
	}

	publishEvent("binary_join", map[string]interface{}{
		"account_id": accountID,
		"upline_id":  member.UplineID,
		"side":       member.PositionSide,
	})
	return member, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

// findPlacement resolves the slot for a new node: ascend from the referrer
// to the topmost still-qualified ancestor, then search breadth-first for the
// first open slot, descending weak-side-first among qualified nodes only.
func findPlacement(inviterID *string, params config.BinaryParams) (Placement, error) {
	start, err := teamRoot(inviterID, params)
	if err != nil {
		return Placement{}, err
	}
	if start == "" {
		// very first enrollment becomes the genesis root
		var count int64
		if err := config.DB.Model(&models.BinaryMember{}).Count(&count).Error; err != nil {
			return Placement{}, err
		}
		if count == 0 {
			return Placement{UplineID: "", Side: models.SideA, Depth: 1}, nil
		}
		return Placement{}, wallet.PlacementNotFound("no qualifying upline or genesis root available")
	}

	type queued struct {
		accountID string
		depth     int
	}
	queue := []queued{{accountID: start, depth: 1}}
	last := queued{accountID: start, depth: 1}
	lastMember := &models.BinaryMember{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		var node models.BinaryMember
		if err := config.DB.First(&node, "account_id = ?", current.accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return Placement{}, err
		}
		last = current
		lastMember = &node

		children, err := qualifiedChildren(current.accountID)
		if err != nil {
			return Placement{}, err
		}

		hasA, hasB := false, false
		var aChild, bChild string
		for _, child := range children {
			if child.PositionSide == models.SideA {
				hasA, aChild = true, child.AccountID
			} else {
				hasB, bChild = true, child.AccountID
			}
		}

		side, found := chooseSlot(hasA, hasB, node.ASideCount, node.BSideCount)
		if found {
			return Placement{UplineID: current.accountID, Side: side, Depth: current.depth}, nil
		}

		// search depth is capped; past the cap the weaker side of the last
		// visited node takes the new enrollment
		if current.depth >= params.PlacementMaxDepth {
			return Placement{
				UplineID: current.accountID,
				Side:     weakerSide(node.ASideCount, node.BSideCount),
				Depth:    current.depth,
			}, nil
		}

		next := aChild
		if side == models.SideB {
			next = bChild
		}
		if next != "" {
			queue = append(queue, queued{accountID: next, depth: current.depth + 1})
		}
	}

	return Placement{
		UplineID: last.accountID,
		Side:     weakerSide(lastMember.ASideCount, lastMember.BSideCount),
		Depth:    last.depth,
	}, nil
}

// teamRoot walks upline pointers from the referrer to the topmost qualified
// ancestor. Returns "" when the referrer has no placement at all.
func teamRoot(inviterID *string, params config.BinaryParams) (string, error) {
	if inviterID == nil {
		return genesisRoot()
	}

	var node models.BinaryMember
	if err := config.DB.First(&node, "account_id = ?", *inviterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return genesisRoot()
		}
		return "", err
	}

	visited := map[string]bool{}
	current := node
	for depth := 0; depth < params.PropagationMaxDepth; depth++ {
		if visited[current.AccountID] {
			return "", fmt.Errorf("cycle detected in upline chain at %s", current.AccountID)
		}
		visited[current.AccountID] = true

		if current.UplineID == nil {
			break
		}
		var parent models.BinaryMember
		if err := config.DB.First(&parent, "account_id = ?", *current.UplineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return "", err
		}
		if !qualifies(parent.AccountID) {
			break
		}
		current = parent
	}
	return current.AccountID, nil
}

func genesisRoot() (string, error) {
	var root models.BinaryMember
	err := config.DB.Where("upline_id IS NULL").Order("id asc").First(&root).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return root.AccountID, nil
}

func qualifies(accountID string) bool {
	var account models.Account
	if err := config.DB.Select("is_agent").First(&account, "id = ?", accountID).Error; err != nil {
		return false
	}
	return account.IsAgent
}

// qualifiedChildren returns the direct children whose owners are paid
// agents; unpaid users never occupy slots.
func qualifiedChildren(uplineID string) ([]models.BinaryMember, error) {
	var children []models.BinaryMember
	err := config.DB.
		Joins("JOIN accounts ON accounts.id = binary_members.account_id").
		Where("binary_members.upline_id = ? AND accounts.is_agent = ?", uplineID, true).
		Find(&children).Error
	return children, err
}

// PropagateUnits adds units to the matching-side order and pending counters
// of every ancestor, walking parent pointers iteratively with a visited-set
// guard. Returns the account IDs whose pending counts changed, outermost
// ancestor last, so callers can run settlement over the whole path.
func PropagateUnits(uplineID string, side models.BinarySide, units int, params config.BinaryParams) ([]string, error) {
	path := make([]string, 0, 8)
	visited := map[string]bool{}

	currentID := uplineID
	currentSide := side
	for depth := 0; depth < params.PropagationMaxDepth; depth++ {
		if visited[currentID] {
			return path, fmt.Errorf("cycle detected in upline chain at %s", currentID)
		}
		visited[currentID] = true

		countCol, pendingCol := "a_side_count", "a_side_pending"
		if currentSide == models.SideB {
			countCol, pendingCol = "b_side_count", "b_side_pending"
		}

		res := config.DB.Model(&models.BinaryMember{}).
			Where("account_id = ?", currentID).
			UpdateColumns(map[string]interface{}{
				countCol:   gorm.Expr(countCol+" + ?", units),
				pendingCol: gorm.Expr(pendingCol+" + ?", units),
			})
		if res.Error != nil {
			return path, res.Error
		}
		if res.RowsAffected == 0 {
			break
		}
		path = append(path, currentID)

		var node models.BinaryMember
		if err := config.DB.First(&node, "account_id = ?", currentID).Error; err != nil {
			return path, err
		}
		if node.UplineID == nil {
			break
		}
		currentSide = node.PositionSide
		currentID = *node.UplineID
	}
	return path, nil
}

// settlePath runs the settlement check over every node whose pending counts
// changed. One failing node does not stop the rest.
func settlePath(path []string, params config.BinaryParams) {
	for _, accountID := range path {
		if err := SettleNode(accountID, params); err != nil {
			logrus.WithField("account_id", accountID).Errorf("settlement failed: %v", err)
		}
	}
}
