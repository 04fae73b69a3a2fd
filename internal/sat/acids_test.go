package sat

import "testing"

const heapCapa = 100

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: want panic, got none", name)
		}
	}()
	f()
}

func emptyACIDS(t *testing.T) *ACIDS {
	t.Helper()
	a := NewACIDS(heapCapa)
	for i := 0; i < heapCapa; i++ {
		a.popTop()
	}
	return a
}

func TestACIDS_IsEmptyRemainsFalseWhileEverythingWasNotPopped(t *testing.T) {
	a := NewACIDS(heapCapa)
	for i := 0; i < heapCapa; i++ {
		if a.isEmpty() {
			t.Fatalf("isEmpty(): got true after %d pops, want false", i)
		}
		a.popTop()
	}
	if !a.isEmpty() {
		t.Errorf("isEmpty(): got false after all pops, want true")
	}
}

func TestACIDS_IsEmptyIsFalseAfterPushBack(t *testing.T) {
	a := emptyACIDS(t)
	a.pushBack(4)
	if a.isEmpty() {
		t.Errorf("isEmpty(): got true, want false")
	}
}

func TestACIDS_BumpMustFailForZero(t *testing.T) {
	a := NewACIDS(heapCapa)
	mustPanic(t, "bump(0)", func() { a.bump(0) })
}

func TestACIDS_BumpMustFailAboveTheMax(t *testing.T) {
	a := NewACIDS(heapCapa)
	mustPanic(t, "bump(capa+1)", func() { a.bump(heapCapa + 1) })
}

func TestACIDS_BumpMustUpdateTheScoreAndPosition(t *testing.T) {
	a := NewACIDS(heapCapa)
	a.bump(50)
	if got := a.popTop(); got != 50 {
		t.Errorf("popTop(): got %d, want 50", got)
	}
}

func TestACIDS_BumpWontPushBackAPoppedItem(t *testing.T) {
	a := emptyACIDS(t)
	a.bump(42)
	if !a.isEmpty() {
		t.Errorf("isEmpty(): got false, want true")
	}
}

func TestACIDS_BumpWontLetAPoppedItemSneakIntoTheActiveOnes(t *testing.T) {
	a := emptyACIDS(t)
	a.pushBack(5)
	a.bump(42)
	if got := a.popTop(); got != 5 {
		t.Errorf("popTop(): got %d, want 5", got)
	}
	if !a.isEmpty() {
		t.Errorf("isEmpty(): got false, want true")
	}
}

func TestACIDS_BumpUpdatesScoreEvenWhenItemIsPopped(t *testing.T) {
	a := emptyACIDS(t)
	a.bump(42)
	for v := Variable(1); v <= heapCapa; v++ {
		a.pushBack(v)
	}
	if got := a.popTop(); got != 42 {
		t.Errorf("popTop(): got %d, want 42", got)
	}
}

func TestACIDS_PushBackMustFailForZero(t *testing.T) {
	a := NewACIDS(heapCapa)
	mustPanic(t, "pushBack(0)", func() { a.pushBack(0) })
}

func TestACIDS_PushBackHasNoEffectWhenAlreadyOnHeap(t *testing.T) {
	a := emptyACIDS(t)
	a.pushBack(10)
	a.pushBack(10)

	if got := a.popTop(); got != 10 {
		t.Errorf("popTop(): got %d, want 10", got)
	}
	if !a.isEmpty() {
		t.Errorf("isEmpty(): got false, want true")
	}
}

func TestACIDS_PushBackMustPutItemBackOnTheHeap(t *testing.T) {
	a := emptyACIDS(t)
	a.pushBack(10)

	if a.isEmpty() {
		t.Fatalf("isEmpty(): got true, want false")
	}
	if got := a.popTop(); got != 10 {
		t.Errorf("popTop(): got %d, want 10", got)
	}
}

func TestACIDS_PushBackRestoresTheScoreOrder(t *testing.T) {
	a := emptyACIDS(t)

	a.bump(2)
	a.decay()
	a.bump(3)
	a.decay()
	a.bump(7)
	a.decay()
	a.bump(9)

	a.pushBack(7)
	a.pushBack(3)
	a.pushBack(9)
	a.pushBack(2)

	want := []Variable{9, 7, 3, 2}
	for _, w := range want {
		if got := a.popTop(); got != w {
			t.Errorf("popTop(): got %d, want %d", got, w)
		}
	}
	if !a.isEmpty() {
		t.Errorf("isEmpty(): got false, want true")
	}
}

func TestACIDS_PopTopMustFailOnEmptyHeap(t *testing.T) {
	a := emptyACIDS(t)
	mustPanic(t, "popTop()", func() { a.popTop() })
}

func TestACIDS_PopTopMustRemoveItemsInDecreasingScoreOrder(t *testing.T) {
	a := NewACIDS(heapCapa)
	for v := Variable(1); v <= heapCapa; v++ {
		a.bump(v)
		a.decay()
	}

	for i := 0; i < heapCapa; i++ {
		want := Variable(heapCapa - i)
		if got := a.popTop(); got != want {
			t.Fatalf("popTop(): got %d, want %d", got, want)
		}
	}
}
